// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

const rollupConcurrency = 4

type RatingSource interface {
	RatingsForStore(ctx context.Context, storeID string) ([]rating.StoreRating, error)
	Count(ctx context.Context) (int64, error)
}

type StoreSource interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
	ListByOwner(ctx context.Context, ownerID string) ([]store.Store, error)
	Count(ctx context.Context) (int64, error)
}

type UserSource interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
	Count(ctx context.Context) (int, error)
}

// Service computes every statistic at read time from the rating ledger.
type Service struct {
	ratings RatingSource
	stores  StoreSource
	users   UserSource
}

func NewService(ratings RatingSource, stores StoreSource, users UserSource) *Service {
	return &Service{ratings: ratings, stores: stores, users: users}
}

func (s *Service) StoreStats(
	ctx context.Context,
	actor authz.Identity,
	storeID string,
) (*StoreStats, error) {
	if err := authz.Authorize(actor, authz.ActionViewStore, ""); err != nil {
		return nil, err
	}

	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &StoreStats{StoreID: st.ID, Summary: st.Summary()}, nil
}

// OwnerRollup lists every store ownerID owns, including unrated ones,
// with the ratings behind each summary.
func (s *Service) OwnerRollup(
	ctx context.Context,
	actor authz.Identity,
	ownerID string,
) (*OwnerDashboard, error) {
	if err := authz.Authorize(actor, authz.ActionViewOwnerDashboard, ownerID); err != nil {
		return nil, err
	}

	stores, err := s.stores.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]OwnerStore, len(stores))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)

	for i := range stores {
		g.Go(func() error {
			details, err := s.ratings.RatingsForStore(gctx, stores[i].ID)
			if err != nil {
				return fmt.Errorf("ratings for store %s: %w", stores[i].ID, err)
			}

			summary := toStoreSummary(&stores[i])
			summary.Summary = rating.SummarizeValues(details)
			out[i] = OwnerStore{
				StoreSummary: summary,
				Ratings:      rating.ToStoreRatingList(details),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sum, count int64
	for _, st := range out {
		for _, r := range st.Ratings {
			sum += int64(r.Rating)
		}
		count += st.RatingCount
	}

	return &OwnerDashboard{
		OwnerID:      ownerID,
		TotalStores:  len(out),
		TotalRatings: count,
		Overall:      rating.Summarize(sum, count).AverageRating,
		Stores:       out,
	}, nil
}

// GlobalStats runs the three table counts concurrently.
func (s *Service) GlobalStats(
	ctx context.Context,
	actor authz.Identity,
) (*GlobalStats, error) {
	if err := authz.Authorize(actor, authz.ActionViewGlobalStats, ""); err != nil {
		return nil, err
	}

	var stats GlobalStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.Count(gctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.stores.Count(gctx)
		stats.TotalStores = n
		return err
	})
	g.Go(func() error {
		n, err := s.ratings.Count(gctx)
		stats.TotalRatings = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}

	return &stats, nil
}

func (s *Service) UserDetail(
	ctx context.Context,
	actor authz.Identity,
	userID string,
) (*UserDetail, error) {
	if err := authz.Authorize(actor, authz.ActionViewUserDetail, ""); err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	detail := &UserDetail{UserResponse: user.ToUserResponse(u)}
	if !u.IsStoreOwner() {
		return detail, nil
	}

	stores, err := s.stores.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	var sum, count int64
	detail.Stores = make([]StoreSummary, 0, len(stores))
	for i := range stores {
		detail.Stores = append(detail.Stores, toStoreSummary(&stores[i]))
		sum += stores[i].RatingSum
		count += stores[i].RatingCount
	}

	avg := rating.Summarize(sum, count).AverageRating
	detail.OwnerAverage = &avg

	return detail, nil
}
