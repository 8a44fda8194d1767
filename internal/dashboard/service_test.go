// AngelaMos | 2026
// service_test.go

package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

type fakeRatings struct {
	byStore map[string][]int
	fail    string
	calls   atomic.Int32
}

func (f *fakeRatings) RatingsForStore(_ context.Context, storeID string) ([]rating.StoreRating, error) {
	f.calls.Add(1)
	if storeID == f.fail {
		return nil, errors.New("db gone")
	}
	out := []rating.StoreRating{}
	for _, v := range f.byStore[storeID] {
		out = append(out, rating.StoreRating{Rating: rating.Rating{StoreID: storeID, Value: v}})
	}
	return out, nil
}

func (f *fakeRatings) Count(_ context.Context) (int64, error) {
	var n int64
	for _, vs := range f.byStore {
		n += int64(len(vs))
	}
	return n, nil
}

type fakeStores struct {
	stores  []store.Store
	ratings *fakeRatings
}

func (f *fakeStores) withTotals(s store.Store) store.Store {
	for _, v := range f.ratings.byStore[s.ID] {
		s.RatingSum += int64(v)
		s.RatingCount++
	}
	return s
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*store.Store, error) {
	for _, s := range f.stores {
		if s.ID == id {
			st := f.withTotals(s)
			return &st, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeStores) ListByOwner(_ context.Context, ownerID string) ([]store.Store, error) {
	out := []store.Store{}
	for _, s := range f.stores {
		if s.OwnerID == ownerID {
			out = append(out, f.withTotals(s))
		}
	}
	return out, nil
}

func (f *fakeStores) Count(_ context.Context) (int64, error) {
	return int64(len(f.stores)), nil
}

type fakeUsers map[string]*user.User

func (f fakeUsers) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f fakeUsers) Count(_ context.Context) (int, error) {
	return len(f), nil
}

var (
	ownerA = authz.Identity{ID: "o-a", Role: authz.RoleStoreOwner}
	ownerB = authz.Identity{ID: "o-b", Role: authz.RoleStoreOwner}
	rater  = authz.Identity{ID: "u-1", Role: authz.RoleUser}
	admin  = authz.Identity{ID: "a-1", Role: authz.RoleAdmin}
)

func newFixture() (*Service, *fakeRatings) {
	ratings := &fakeRatings{byStore: map[string][]int{
		"s-1": {5, 4},
		"s-3": {1},
	}}
	stores := &fakeStores{ratings: ratings, stores: []store.Store{
		{ID: "s-1", Name: "One", OwnerID: ownerA.ID},
		{ID: "s-2", Name: "Two", OwnerID: ownerA.ID},
		{ID: "s-3", Name: "Three", OwnerID: ownerB.ID},
	}}
	users := fakeUsers{
		ownerA.ID: {ID: ownerA.ID, Name: "Ann", Role: authz.RoleStoreOwner},
		ownerB.ID: {ID: ownerB.ID, Name: "Ben", Role: authz.RoleStoreOwner},
		rater.ID:  {ID: rater.ID, Name: "Ray", Role: authz.RoleUser},
		admin.ID:  {ID: admin.ID, Name: "Ada", Role: authz.RoleAdmin},
	}
	return NewService(ratings, stores, users), ratings
}

func TestOwnerRollup(t *testing.T) {
	svc, _ := newFixture()

	dash, err := svc.OwnerRollup(context.Background(), ownerA, ownerA.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.TotalStores)
	assert.Equal(t, int64(2), dash.TotalRatings)
	assert.Equal(t, 4.5, dash.Overall)
	require.Len(t, dash.Stores, 2)

	assert.Equal(t, "s-1", dash.Stores[0].ID)
	assert.Equal(t, rating.Summary{AverageRating: 4.5, RatingCount: 2}, dash.Stores[0].Summary)
	assert.Len(t, dash.Stores[0].Ratings, 2)

	assert.Equal(t, "s-2", dash.Stores[1].ID, "zero-rating stores are included")
	assert.Equal(t, rating.Summary{}, dash.Stores[1].Summary)
	assert.NotNil(t, dash.Stores[1].Ratings)
	assert.Empty(t, dash.Stores[1].Ratings)
}

func TestOwnerRollupGate(t *testing.T) {
	svc, ratings := newFixture()
	ctx := context.Background()

	for _, tc := range []struct {
		name    string
		actor   authz.Identity
		ownerID string
	}{
		{"user", rater, ownerA.ID},
		{"admin", admin, ownerA.ID},
		{"another owner", ownerB, ownerA.ID},
		{"anonymous", authz.Identity{}, ownerA.ID},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.OwnerRollup(ctx, tc.actor, tc.ownerID)
			require.ErrorIs(t, err, core.ErrForbidden)
		})
	}

	assert.Zero(t, ratings.calls.Load(), "denied requests never read the ledger")
}

func TestOwnerRollupPropagatesFailure(t *testing.T) {
	svc, ratings := newFixture()
	ratings.fail = "s-2"

	_, err := svc.OwnerRollup(context.Background(), ownerA, ownerA.ID)
	require.Error(t, err)
}

func TestStoreStats(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	stats, err := svc.StoreStats(ctx, rater, "s-1")
	require.NoError(t, err)
	assert.Equal(t, rating.Summary{AverageRating: 4.5, RatingCount: 2}, stats.Summary)

	stats, err = svc.StoreStats(ctx, rater, "s-2")
	require.NoError(t, err)
	assert.Equal(t, rating.Summary{}, stats.Summary)

	_, err = svc.StoreStats(ctx, rater, "s-404")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGlobalStats(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	stats, err := svc.GlobalStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, GlobalStats{TotalUsers: 4, TotalStores: 3, TotalRatings: 3}, *stats)

	_, err = svc.GlobalStats(ctx, ownerA)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestUserDetail(t *testing.T) {
	svc, _ := newFixture()
	ctx := context.Background()

	detail, err := svc.UserDetail(ctx, admin, ownerA.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", detail.Name)
	assert.Len(t, detail.Stores, 2)
	require.NotNil(t, detail.OwnerAverage)
	assert.Equal(t, 4.5, *detail.OwnerAverage)

	detail, err = svc.UserDetail(ctx, admin, rater.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.OwnerAverage)
	assert.Nil(t, detail.Stores)

	_, err = svc.UserDetail(ctx, rater, rater.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.UserDetail(ctx, admin, "ghost")
	require.ErrorIs(t, err, core.ErrNotFound)
}
