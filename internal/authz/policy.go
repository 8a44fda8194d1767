// AngelaMos | 2026
// policy.go

// Package authz holds the access policy for every privileged operation.
// Decide is pure: it sees only the verified caller and the ownership of
// the target resource, which callers must load fresh for each decision.
package authz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

const (
	RoleUser       = "user"
	RoleStoreOwner = "store_owner"
	RoleAdmin      = "admin"
)

// Identity is the verified caller. Only the authenticator builds one.
type Identity struct {
	ID   string
	Role string
}

func (i Identity) IsZero() bool {
	return i.ID == "" || i.Role == ""
}

type Action string

const (
	ActionSubmitRating       Action = "rating:submit"
	ActionViewUserRatings    Action = "rating:view_user"
	ActionViewOwnerDashboard Action = "dashboard:view_owner"
	ActionCreateStore        Action = "store:create"
	ActionCreateUser         Action = "user:create"
	ActionListUsers          Action = "user:list"
	ActionViewUserDetail     Action = "user:view_detail"
	ActionAdminListStores    Action = "store:admin_list"
	ActionViewGlobalStats    Action = "stats:view_global"
	ActionViewStore          Action = "store:view"
	ActionListStores         Action = "store:list"
)

type Reason string

const (
	ReasonAllowed    Reason = ""
	ReasonNoIdentity Reason = "no_identity"
	ReasonNoRule     Reason = "no_rule"
	ReasonRole       Reason = "role"
	ReasonOwnership  Reason = "ownership"
	ReasonSelfRating Reason = "self_rating"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(r Reason) Decision {
	return Decision{Reason: r}
}

func roleIn(role string, roles ...string) bool {
	return slices.Contains(roles, role)
}

// Decide evaluates the rule table. resourceOwnerID is the owner of the
// target: the store owner for ratings, the subject user for per-user
// reads, the dashboard owner for rollups. Unlisted pairs are denied.
func Decide(actor Identity, action Action, resourceOwnerID string) Decision {
	if actor.IsZero() {
		return deny(ReasonNoIdentity)
	}

	switch action {
	case ActionSubmitRating:
		if resourceOwnerID == actor.ID {
			return deny(ReasonSelfRating)
		}
		if !roleIn(actor.Role, RoleUser) {
			return deny(ReasonRole)
		}
		return allow()

	case ActionViewUserRatings:
		switch actor.Role {
		case RoleAdmin:
			return allow()
		case RoleUser:
			if resourceOwnerID != actor.ID {
				return deny(ReasonOwnership)
			}
			return allow()
		}
		return deny(ReasonRole)

	case ActionViewOwnerDashboard:
		if !roleIn(actor.Role, RoleStoreOwner) {
			return deny(ReasonRole)
		}
		if resourceOwnerID != actor.ID {
			return deny(ReasonOwnership)
		}
		return allow()

	case ActionCreateStore,
		ActionCreateUser,
		ActionListUsers,
		ActionViewUserDetail,
		ActionAdminListStores,
		ActionViewGlobalStats:
		if !roleIn(actor.Role, RoleAdmin) {
			return deny(ReasonRole)
		}
		return allow()

	case ActionViewStore, ActionListStores:
		if !roleIn(actor.Role, RoleUser, RoleStoreOwner, RoleAdmin) {
			return deny(ReasonRole)
		}
		return allow()
	}

	return deny(ReasonNoRule)
}

var ErrSelfRating = errors.New("store owners cannot rate their own store")

// Authorize is Decide as an error. Denials wrap core.ErrForbidden, and
// self-rating additionally wraps ErrSelfRating.
func Authorize(actor Identity, action Action, resourceOwnerID string) error {
	d := Decide(actor, action, resourceOwnerID)
	if d.Allowed {
		return nil
	}

	if d.Reason == ReasonSelfRating {
		return fmt.Errorf("%s: %w: %w", action, ErrSelfRating, core.ErrForbidden)
	}
	return fmt.Errorf("%s denied (%s): %w", action, d.Reason, core.ErrForbidden)
}

func IsValidRole(role string) bool {
	return roleIn(role, RoleUser, RoleStoreOwner, RoleAdmin)
}
