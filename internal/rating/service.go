// AngelaMos | 2026
// service.go

package rating

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

var ErrStoreNotFound = fmt.Errorf("store %w", core.ErrNotFound)

// StoreLookup resolves a store's current owner. It returns an error
// wrapping core.ErrNotFound for unknown stores.
type StoreLookup interface {
	OwnerOf(ctx context.Context, storeID string) (string, error)
}

type Service struct {
	repo   Repository
	stores StoreLookup
}

func NewService(repo Repository, stores StoreLookup) *Service {
	return &Service{repo: repo, stores: stores}
}

type SubmitResult struct {
	Rating  Rating
	Created bool
	Stats   Summary
}

// Submit records actor's rating for a store, replacing any earlier one.
func (s *Service) Submit(
	ctx context.Context,
	actor authz.Identity,
	storeID string,
	value float64,
) (*SubmitResult, error) {
	v, err := ValidateValue(value)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.stores.OwnerOf(ctx, storeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("submit rating %s: %w", storeID, ErrStoreNotFound)
		}
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	if err := authz.Authorize(actor, authz.ActionSubmitRating, ownerID); err != nil {
		return nil, err
	}

	rating, created, err := s.repo.Upsert(ctx, actor.ID, storeID, v)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("submit rating %s: %w", storeID, ErrStoreNotFound)
		}
		return nil, err
	}

	sum, count, err := s.repo.Totals(ctx, storeID)
	if err != nil {
		return nil, err
	}

	core.AddSpanEvent(ctx, "rating.submitted",
		attribute.String("store.id", storeID),
		attribute.Int("rating.value", v),
		attribute.Bool("rating.created", created),
	)

	return &SubmitResult{
		Rating:  *rating,
		Created: created,
		Stats:   Summarize(sum, count),
	}, nil
}

// RatingsByUser lists a user's ratings. Users may read their own,
// admins anyone's.
func (s *Service) RatingsByUser(
	ctx context.Context,
	actor authz.Identity,
	userID string,
) ([]UserRating, error) {
	if err := authz.Authorize(actor, authz.ActionViewUserRatings, userID); err != nil {
		return nil, err
	}

	return s.repo.ByUser(ctx, userID)
}

// RatingsForStore is ungated; callers check access to the store first.
func (s *Service) RatingsForStore(
	ctx context.Context,
	storeID string,
) ([]StoreRating, error) {
	return s.repo.ForStore(ctx, storeID)
}

func (s *Service) RatingOf(
	ctx context.Context,
	userID, storeID string,
) (*Rating, error) {
	return s.repo.Get(ctx, userID, storeID)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Totals(ctx context.Context, storeID string) (Summary, error) {
	sum, count, err := s.repo.Totals(ctx, storeID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(sum, count), nil
}
