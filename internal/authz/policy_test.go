// AngelaMos | 2026
// policy_test.go

package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

var (
	alice = Identity{ID: "u-alice", Role: RoleUser}
	owner = Identity{ID: "u-owner", Role: RoleStoreOwner}
	admin = Identity{ID: "u-admin", Role: RoleAdmin}
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		actor  Identity
		action Action
		owner  string
		want   Decision
	}{
		{"user rates another's store", alice, ActionSubmitRating, owner.ID, allow()},
		{"owner cannot rate", owner, ActionSubmitRating, "u-other", deny(ReasonRole)},
		{"owner rating own store", owner, ActionSubmitRating, owner.ID, deny(ReasonSelfRating)},
		{"admin cannot rate", admin, ActionSubmitRating, owner.ID, deny(ReasonRole)},
		{"user with matching owner id is self-rating", alice, ActionSubmitRating, alice.ID, deny(ReasonSelfRating)},

		{"user views own ratings", alice, ActionViewUserRatings, alice.ID, allow()},
		{"user views other ratings", alice, ActionViewUserRatings, "u-bob", deny(ReasonOwnership)},
		{"admin views any ratings", admin, ActionViewUserRatings, "u-bob", allow()},
		{"owner views user ratings", owner, ActionViewUserRatings, owner.ID, deny(ReasonRole)},

		{"owner views own dashboard", owner, ActionViewOwnerDashboard, owner.ID, allow()},
		{"owner views other dashboard", owner, ActionViewOwnerDashboard, "u-other-owner", deny(ReasonOwnership)},
		{"user views owner dashboard", alice, ActionViewOwnerDashboard, owner.ID, deny(ReasonRole)},
		{"user views dashboard with own id", alice, ActionViewOwnerDashboard, alice.ID, deny(ReasonRole)},
		{"admin views owner dashboard", admin, ActionViewOwnerDashboard, owner.ID, deny(ReasonRole)},

		{"admin creates store", admin, ActionCreateStore, owner.ID, allow()},
		{"owner creates store", owner, ActionCreateStore, owner.ID, deny(ReasonRole)},
		{"admin creates user", admin, ActionCreateUser, "", allow()},
		{"user creates user", alice, ActionCreateUser, "", deny(ReasonRole)},
		{"admin lists users", admin, ActionListUsers, "", allow()},
		{"owner lists users", owner, ActionListUsers, "", deny(ReasonRole)},
		{"admin user detail", admin, ActionViewUserDetail, alice.ID, allow()},
		{"user own detail via admin route", alice, ActionViewUserDetail, alice.ID, deny(ReasonRole)},
		{"admin store list", admin, ActionAdminListStores, "", allow()},
		{"global stats user", alice, ActionViewGlobalStats, "", deny(ReasonRole)},
		{"global stats admin", admin, ActionViewGlobalStats, "", allow()},

		{"user views store", alice, ActionViewStore, owner.ID, allow()},
		{"owner lists stores", owner, ActionListStores, "", allow()},
		{"admin lists stores", admin, ActionListStores, "", allow()},

		{"unknown role", Identity{ID: "x", Role: "root"}, ActionListStores, "", deny(ReasonRole)},
		{"unknown action", admin, Action("store:delete"), "", deny(ReasonNoRule)},
		{"anonymous", Identity{}, ActionListStores, "", deny(ReasonNoIdentity)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.actor, tt.action, tt.owner))
		})
	}
}

func TestAuthorize(t *testing.T) {
	require.NoError(t, Authorize(alice, ActionSubmitRating, owner.ID))

	err := Authorize(alice, ActionSubmitRating, alice.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrForbidden))
	assert.True(t, errors.Is(err, ErrSelfRating))

	err = Authorize(alice, ActionViewOwnerDashboard, owner.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrForbidden))
	assert.False(t, errors.Is(err, ErrSelfRating))
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleStoreOwner, RoleAdmin} {
		assert.True(t, IsValidRole(role), role)
	}
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}
