// AngelaMos | 2026
// service.go

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

var (
	ErrOwnerNotFound = fmt.Errorf("owner %w", core.ErrNotFound)
	ErrInvalidOwner  = fmt.Errorf("owner must have role store_owner: %w", core.ErrInvalidInput)
)

const enrichConcurrency = 8

type OwnerLookup interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type RatingLookup interface {
	RatingOf(ctx context.Context, userID, storeID string) (*rating.Rating, error)
}

type Service struct {
	repo    Repository
	owners  OwnerLookup
	ratings RatingLookup
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	owners OwnerLookup,
	ratings RatingLookup,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		owners:  owners,
		ratings: ratings,
		logger:  logger,
	}
}

// Create registers a store for an existing store_owner.
func (s *Service) Create(
	ctx context.Context,
	actor authz.Identity,
	req CreateStoreRequest,
) (*Store, error) {
	if err := authz.Authorize(actor, authz.ActionCreateStore, ""); err != nil {
		return nil, err
	}

	owner, err := s.owners.GetUser(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("create store: %w", ErrOwnerNotFound)
		}
		return nil, fmt.Errorf("create store: %w", err)
	}
	if !owner.IsStoreOwner() {
		return nil, fmt.Errorf("create store: %w", ErrInvalidOwner)
	}

	store := &Store{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Address: strings.TrimSpace(req.Address),
		OwnerID: owner.ID,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Service) Get(
	ctx context.Context,
	actor authz.Identity,
	id string,
) (*Listing, error) {
	if err := authz.Authorize(actor, authz.ActionViewStore, ""); err != nil {
		return nil, err
	}

	store, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items := []Listing{{Store: *store}}
	s.enrich(ctx, actor, items)
	return &items[0], nil
}

// List returns a page of stores. Role user callers also get their own
// rating on each store; a failed lookup drops only that item's rating.
func (s *Service) List(
	ctx context.Context,
	actor authz.Identity,
	filter Filter,
) ([]Listing, int, error) {
	if err := authz.Authorize(actor, authz.ActionListStores, ""); err != nil {
		return nil, 0, err
	}

	return s.list(ctx, actor, filter)
}

func (s *Service) AdminList(
	ctx context.Context,
	actor authz.Identity,
	filter Filter,
) ([]Listing, int, error) {
	if err := authz.Authorize(actor, authz.ActionAdminListStores, ""); err != nil {
		return nil, 0, err
	}

	return s.list(ctx, actor, filter)
}

func (s *Service) list(
	ctx context.Context,
	actor authz.Identity,
	filter Filter,
) ([]Listing, int, error) {
	stores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]Listing, len(stores))
	for i := range stores {
		items[i].Store = stores[i]
	}
	s.enrich(ctx, actor, items)

	return items, total, nil
}

func (s *Service) enrich(ctx context.Context, actor authz.Identity, items []Listing) {
	if actor.Role != authz.RoleUser || len(items) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(enrichConcurrency)

	for i := range items {
		g.Go(func() error {
			r, err := s.ratings.RatingOf(ctx, actor.ID, items[i].ID)
			switch {
			case err == nil:
				v := r.Value
				items[i].UserRating = &v
			case errors.Is(err, core.ErrNotFound):
			default:
				s.logger.WarnContext(ctx, "user rating lookup failed",
					"store_id", items[i].ID,
					"user_id", actor.ID,
					"error", err,
				)
			}
			return nil
		})
	}

	//nolint:errcheck // item errors are logged, never returned
	_ = g.Wait()
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Store, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
