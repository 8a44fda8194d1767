// AngelaMos | 2026
// service_test.go

package rating

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

type key struct{ user, store string }

type memLedger struct {
	mu      sync.Mutex
	owners  map[string]string
	ratings map[key]*Rating
	seq     int
}

func newMemLedger(owners map[string]string) *memLedger {
	return &memLedger{owners: owners, ratings: map[key]*Rating{}}
}

func (m *memLedger) OwnerOf(_ context.Context, storeID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[storeID]
	if !ok {
		return "", fmt.Errorf("owner of %s: %w", storeID, core.ErrNotFound)
	}
	return owner, nil
}

func (m *memLedger) Upsert(_ context.Context, userID, storeID string, v int) (*Rating, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[storeID]
	if !ok || owner == userID {
		return nil, false, fmt.Errorf("upsert: %w: %w", authz.ErrSelfRating, core.ErrForbidden)
	}
	k := key{userID, storeID}
	if r, ok := m.ratings[k]; ok {
		r.Value = v
		r.UpdatedAt = time.Now()
		cp := *r
		return &cp, false, nil
	}
	m.seq++
	r := &Rating{ID: fmt.Sprintf("r-%d", m.seq), UserID: userID, StoreID: storeID, Value: v}
	m.ratings[k] = r
	cp := *r
	return &cp, true, nil
}

func (m *memLedger) ForStore(_ context.Context, storeID string) ([]StoreRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []StoreRating{}
	for k, r := range m.ratings {
		if k.store == storeID {
			out = append(out, StoreRating{Rating: *r})
		}
	}
	return out, nil
}

func (m *memLedger) ByUser(_ context.Context, userID string) ([]UserRating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []UserRating{}
	for k, r := range m.ratings {
		if k.user == userID {
			out = append(out, UserRating{Rating: *r})
		}
	}
	return out, nil
}

func (m *memLedger) Get(_ context.Context, userID, storeID string) (*Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[key{userID, storeID}]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memLedger) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.ratings)), nil
}

func (m *memLedger) Totals(_ context.Context, storeID string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, n int64
	for k, r := range m.ratings {
		if k.store == storeID {
			sum += int64(r.Value)
			n++
		}
	}
	return sum, n, nil
}

var (
	userA   = authz.Identity{ID: "u-a", Role: authz.RoleUser}
	userB   = authz.Identity{ID: "u-b", Role: authz.RoleUser}
	ownerO  = authz.Identity{ID: "u-o", Role: authz.RoleStoreOwner}
	adminZ  = authz.Identity{ID: "u-z", Role: authz.RoleAdmin}
	storeS  = "s-1"
	storeS2 = "s-2"
)

func newLedgerService() (*Service, *memLedger) {
	mem := newMemLedger(map[string]string{storeS: ownerO.ID, storeS2: userA.ID})
	return NewService(mem, mem), mem
}

func TestSubmitScenario(t *testing.T) {
	svc, _ := newLedgerService()
	ctx := context.Background()

	stats, err := svc.Totals(ctx, storeS)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, stats)

	steps := []struct {
		actor   authz.Identity
		value   float64
		created bool
		want    Summary
	}{
		{userA, 5, true, Summary{AverageRating: 5, RatingCount: 1}},
		{userB, 3, true, Summary{AverageRating: 4, RatingCount: 2}},
		{userA, 1, false, Summary{AverageRating: 2, RatingCount: 2}},
	}

	for i, step := range steps {
		res, err := svc.Submit(ctx, step.actor, storeS, step.value)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.created, res.Created, "step %d", i)
		assert.Equal(t, step.want, res.Stats, "step %d", i)
		assert.Equal(t, int(step.value), res.Rating.Value)
	}
}

func TestSubmitIdempotentRerating(t *testing.T) {
	svc, mem := newLedgerService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, userA, storeS, 4)
	require.NoError(t, err)
	res, err := svc.Submit(ctx, userA, storeS, 2)
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, Summary{AverageRating: 2, RatingCount: 1}, res.Stats)

	n, err := mem.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mine, err := svc.RatingOf(ctx, userA.ID, storeS)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Value)
}

func TestSubmitRejections(t *testing.T) {
	svc, mem := newLedgerService()
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   authz.Identity
		store   string
		value   float64
		wantErr []error
	}{
		{"zero", userA, storeS, 0, []error{ErrInvalidRating, core.ErrInvalidInput}},
		{"six", userA, storeS, 6, []error{ErrInvalidRating}},
		{"negative", userA, storeS, -1, []error{ErrInvalidRating}},
		{"fraction", userA, storeS, 3.5, []error{ErrInvalidRating}},
		{"unknown store", userA, "s-missing", 4, []error{ErrStoreNotFound, core.ErrNotFound}},
		{"owner of the store", ownerO, storeS, 4, []error{authz.ErrSelfRating, core.ErrForbidden}},
		{"user owning a store record", userA, storeS2, 4, []error{authz.ErrSelfRating, core.ErrForbidden}},
		{"admin cannot rate", adminZ, storeS, 4, []error{core.ErrForbidden}},
		{"anonymous", authz.Identity{}, storeS, 4, []error{core.ErrForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.actor, tt.store, tt.value)
			for _, want := range tt.wantErr {
				require.ErrorIs(t, err, want)
			}
		})
	}

	n, err := mem.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected submissions must not touch the ledger")
}

func TestSubmitValidatesBeforeLookup(t *testing.T) {
	svc, _ := newLedgerService()

	_, err := svc.Submit(context.Background(), userA, "s-missing", 9)
	require.ErrorIs(t, err, ErrInvalidRating)
	assert.False(t, errors.Is(err, core.ErrNotFound))
}

func TestRatingsByUserGate(t *testing.T) {
	svc, _ := newLedgerService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, userA, storeS, 5)
	require.NoError(t, err)

	mine, err := svc.RatingsByUser(ctx, userA, userA.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.RatingsByUser(ctx, userB, userA.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	viaAdmin, err := svc.RatingsByUser(ctx, adminZ, userA.ID)
	require.NoError(t, err)
	assert.Len(t, viaAdmin, 1)

	_, err = svc.RatingsByUser(ctx, ownerO, userA.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
}
