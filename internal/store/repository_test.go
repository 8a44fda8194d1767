// AngelaMos | 2026
// repository_test.go

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/testdb"
)

func TestRepository(t *testing.T) {
	conn := testdb.New(t)
	repo := NewRepository(conn)
	ratings := rating.NewRepository(conn)
	ctx := context.Background()

	owner := testdb.InsertUser(t, conn, "Olive", authz.RoleStoreOwner)
	u1 := testdb.InsertUser(t, conn, "Uma", authz.RoleUser)
	u2 := testdb.InsertUser(t, conn, "Ugo", authz.RoleUser)

	apple := testdb.InsertStore(t, conn, "Apple Market", owner)
	bolt := testdb.InsertStore(t, conn, "Bolt_Hardware", owner)
	corner := testdb.InsertStore(t, conn, "Corner Cafe", owner)

	for _, r := range []struct {
		user, store string
		v           int
	}{
		{u1, apple, 5}, {u2, apple, 4},
		{u1, corner, 2},
	} {
		_, _, err := ratings.Upsert(ctx, r.user, r.store, r.v)
		require.NoError(t, err)
	}

	t.Run("get carries totals", func(t *testing.T) {
		s, err := repo.GetByID(ctx, apple)
		require.NoError(t, err)
		assert.Equal(t, rating.Summary{AverageRating: 4.5, RatingCount: 2}, s.Summary())

		s, err = repo.GetByID(ctx, bolt)
		require.NoError(t, err)
		assert.Equal(t, rating.Summary{}, s.Summary())

		_, err = repo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("filter escapes wildcards", func(t *testing.T) {
		got, total, err := repo.List(ctx, Filter{Name: "_"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, bolt, got[0].ID)

		got, _, err = repo.List(ctx, Filter{Address: "CAFE avenue"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, corner, got[0].ID)
	})

	t.Run("sort by average", func(t *testing.T) {
		got, _, err := repo.List(ctx, Filter{SortBy: "average_rating", SortOrder: "desc"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{apple, corner, bolt}, []string{got[0].ID, got[1].ID, got[2].ID})

		_, _, err = repo.List(ctx, Filter{SortBy: "password"})
		require.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("pagination", func(t *testing.T) {
		got, total, err := repo.List(ctx, Filter{Page: core.Page{Page: 2, PageSize: 2}})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 1)
		assert.Equal(t, corner, got[0].ID)
	})

	t.Run("owner queries", func(t *testing.T) {
		mine, err := repo.ListByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, mine, 3)

		none, err := repo.ListByOwner(ctx, u1)
		require.NoError(t, err)
		assert.Empty(t, none)

		got, err := repo.OwnerOf(ctx, bolt)
		require.NoError(t, err)
		assert.Equal(t, owner, got)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("create rejects unknown owner", func(t *testing.T) {
		err := repo.Create(ctx, &Store{
			ID:      "6f1d3c1e-0000-4000-8000-000000000001",
			Name:    "Ghost",
			Email:   "ghost@example.com",
			OwnerID: "6f1d3c1e-0000-4000-8000-0000000000ff",
		})
		require.ErrorIs(t, err, ErrOwnerNotFound)
	})
}
