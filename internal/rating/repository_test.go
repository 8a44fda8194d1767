// AngelaMos | 2026
// repository_test.go

package rating

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/testdb"
)

func TestRepository(t *testing.T) {
	conn := testdb.New(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	t.Run("upsert keeps one row per user and store", func(t *testing.T) {
		testdb.Reset(t, conn)
		owner := testdb.InsertUser(t, conn, "Owner", authz.RoleStoreOwner)
		rater := testdb.InsertUser(t, conn, "Rater", authz.RoleUser)
		store := testdb.InsertStore(t, conn, "Corner Shop", owner)

		first, created, err := repo.Upsert(ctx, rater, store, 4)
		require.NoError(t, err)
		assert.True(t, created)

		second, created, err := repo.Upsert(ctx, rater, store, 2)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 2, second.Value)

		sum, count, err := repo.Totals(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, int64(2), sum)
		assert.Equal(t, int64(1), count)
	})

	t.Run("concurrent upserts converge on one row", func(t *testing.T) {
		testdb.Reset(t, conn)
		owner := testdb.InsertUser(t, conn, "Owner", authz.RoleStoreOwner)
		rater := testdb.InsertUser(t, conn, "Rater", authz.RoleUser)
		store := testdb.InsertStore(t, conn, "Busy Shop", owner)

		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := range 20 {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				_, _, err := repo.Upsert(ctx, rater, store, v)
				errs <- err
			}(i%5 + 1)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("self rating is blocked in SQL", func(t *testing.T) {
		testdb.Reset(t, conn)
		owner := testdb.InsertUser(t, conn, "Owner", authz.RoleStoreOwner)
		store := testdb.InsertStore(t, conn, "Own Shop", owner)

		_, _, err := repo.Upsert(ctx, owner, store, 5)
		require.ErrorIs(t, err, authz.ErrSelfRating)
		require.ErrorIs(t, err, core.ErrForbidden)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("missing store is not found rather than self rating", func(t *testing.T) {
		testdb.Reset(t, conn)
		rater := testdb.InsertUser(t, conn, "Rater", authz.RoleUser)

		_, _, err := repo.Upsert(ctx, rater, uuid.NewString(), 4)
		require.ErrorIs(t, err, core.ErrNotFound)
		assert.NotErrorIs(t, err, authz.ErrSelfRating)
	})

	t.Run("check constraint rejects out of range", func(t *testing.T) {
		testdb.Reset(t, conn)
		owner := testdb.InsertUser(t, conn, "Owner", authz.RoleStoreOwner)
		rater := testdb.InsertUser(t, conn, "Rater", authz.RoleUser)
		store := testdb.InsertStore(t, conn, "Shop", owner)

		_, _, err := repo.Upsert(ctx, rater, store, 6)
		require.Error(t, err)
	})

	t.Run("end to end average", func(t *testing.T) {
		testdb.Reset(t, conn)
		owner := testdb.InsertUser(t, conn, "Owner", authz.RoleStoreOwner)
		a := testdb.InsertUser(t, conn, "Alice", authz.RoleUser)
		b := testdb.InsertUser(t, conn, "Bob", authz.RoleUser)
		store := testdb.InsertStore(t, conn, "Bakery", owner)

		summary := func() Summary {
			sum, count, err := repo.Totals(ctx, store)
			require.NoError(t, err)
			return Summarize(sum, count)
		}

		assert.Equal(t, Summary{}, summary())

		_, _, err := repo.Upsert(ctx, a, store, 5)
		require.NoError(t, err)
		assert.Equal(t, Summary{AverageRating: 5, RatingCount: 1}, summary())

		_, _, err = repo.Upsert(ctx, b, store, 3)
		require.NoError(t, err)
		assert.Equal(t, Summary{AverageRating: 4, RatingCount: 2}, summary())

		_, _, err = repo.Upsert(ctx, a, store, 1)
		require.NoError(t, err)
		assert.Equal(t, Summary{AverageRating: 2, RatingCount: 2}, summary())

		forStore, err := repo.ForStore(ctx, store)
		require.NoError(t, err)
		require.Len(t, forStore, 2)
		assert.Equal(t, "Alice", forStore[0].UserName, "most recently updated first")

		byUser, err := repo.ByUser(ctx, a)
		require.NoError(t, err)
		require.Len(t, byUser, 1)
		assert.Equal(t, "Bakery", byUser[0].StoreName)

		_, err = repo.Get(ctx, b, store)
		require.NoError(t, err)
		_, err = repo.Get(ctx, owner, store)
		require.ErrorIs(t, err, core.ErrNotFound)
		_, err = repo.Get(ctx, "not-a-uuid", store)
		require.ErrorIs(t, err, core.ErrNotFound)
	})
}
