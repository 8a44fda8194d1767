// AngelaMos | 2026
// repository.go

package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

// Repository is the only writer of the ratings table.
type Repository interface {
	Upsert(ctx context.Context, userID, storeID string, value int) (*Rating, bool, error)
	ForStore(ctx context.Context, storeID string) ([]StoreRating, error)
	ByUser(ctx context.Context, userID string) ([]UserRating, error)
	Get(ctx context.Context, userID, storeID string) (*Rating, error)
	Count(ctx context.Context) (int64, error)
	Totals(ctx context.Context, storeID string) (sum, count int64, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const ratingColumns = `r.id, r.user_id, r.store_id, r.rating, r.created_at, r.updated_at`

// Upsert inserts or overwrites the (user, store) rating in one statement.
// The SELECT re-checks that the rater does not own the store, so no row
// comes back for a self-rating. The bool reports a fresh insert.
func (r *repository) Upsert(
	ctx context.Context,
	userID, storeID string,
	value int,
) (*Rating, bool, error) {
	query := `
		INSERT INTO ratings AS r (id, user_id, store_id, rating)
		SELECT $1::uuid, $2::uuid, s.id, $4::int
		FROM stores s
		WHERE s.id = $3::uuid AND s.owner_id <> $2::uuid
		ON CONFLICT (user_id, store_id) DO UPDATE
		SET rating = EXCLUDED.rating, updated_at = NOW()
		RETURNING ` + ratingColumns + `, (xmax = 0) AS inserted`

	var row struct {
		Rating
		Inserted bool `db:"inserted"`
	}

	err := r.db.QueryRowxContext(ctx, query,
		uuid.New().String(), userID, storeID, value,
	).StructScan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, r.noUpsertReason(ctx, storeID)
	}
	if err != nil {
		if core.IsForeignKeyViolation(err) || core.IsInvalidID(err) {
			return nil, false, fmt.Errorf("upsert rating: %w", core.ErrNotFound)
		}
		return nil, false, fmt.Errorf("upsert rating: %w", err)
	}

	return &row.Rating, row.Inserted, nil
}

// noUpsertReason explains an upsert that produced no row: either the
// store is gone or the rater owns it.
func (r *repository) noUpsertReason(ctx context.Context, storeID string) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1::uuid)`, storeID)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	if !exists {
		return fmt.Errorf("upsert rating: %w", core.ErrNotFound)
	}
	return fmt.Errorf("upsert rating: %w: %w", authz.ErrSelfRating, core.ErrForbidden)
}

func (r *repository) ForStore(
	ctx context.Context,
	storeID string,
) ([]StoreRating, error) {
	query := `
		SELECT ` + ratingColumns + `, u.name AS user_name, u.email AS user_email
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = $1
		ORDER BY r.updated_at DESC, r.created_at DESC`

	ratings := []StoreRating{}
	if err := r.db.SelectContext(ctx, &ratings, query, storeID); err != nil {
		if core.IsInvalidID(err) {
			return ratings, nil
		}
		return nil, fmt.Errorf("ratings for store: %w", err)
	}

	return ratings, nil
}

func (r *repository) ByUser(
	ctx context.Context,
	userID string,
) ([]UserRating, error) {
	query := `
		SELECT ` + ratingColumns + `,
		       s.name AS store_name, s.address AS store_address
		FROM ratings r
		JOIN stores s ON s.id = r.store_id
		WHERE r.user_id = $1
		ORDER BY r.updated_at DESC`

	ratings := []UserRating{}
	if err := r.db.SelectContext(ctx, &ratings, query, userID); err != nil {
		if core.IsInvalidID(err) {
			return ratings, nil
		}
		return nil, fmt.Errorf("ratings by user: %w", err)
	}

	return ratings, nil
}

func (r *repository) Get(
	ctx context.Context,
	userID, storeID string,
) (*Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings r
		WHERE r.user_id = $1 AND r.store_id = $2`

	var rating Rating
	err := r.db.GetContext(ctx, &rating, query, userID, storeID)
	if errors.Is(err, sql.ErrNoRows) || core.IsInvalidID(err) {
		return nil, fmt.Errorf("get rating: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}

	return &rating, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM ratings`); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return n, nil
}

func (r *repository) Totals(
	ctx context.Context,
	storeID string,
) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(rating), 0) AS sum, COUNT(*) AS count
		FROM ratings
		WHERE store_id = $1`

	var t struct {
		Sum   int64 `db:"sum"`
		Count int64 `db:"count"`
	}
	if err := r.db.GetContext(ctx, &t, query, storeID); err != nil {
		return 0, 0, fmt.Errorf("rating totals: %w", err)
	}

	return t.Sum, t.Count, nil
}
