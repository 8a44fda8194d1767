// AngelaMos | 2026
// repository.go

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type Repository interface {
	Create(ctx context.Context, store *Store) error
	GetByID(ctx context.Context, id string) (*Store, error)
	List(ctx context.Context, filter Filter) ([]Store, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Store, error)
	OwnerOf(ctx context.Context, id string) (string, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// storeSelect joins each store with its grouped rating totals.
const storeSelect = `
	SELECT s.id, s.name, s.email, s.address, s.owner_id,
	       s.created_at, s.updated_at,
	       COALESCE(t.total, 0) AS rating_sum,
	       COALESCE(t.cnt, 0)   AS rating_count
	FROM stores s
	LEFT JOIN (
		SELECT store_id, SUM(rating) AS total, COUNT(*) AS cnt
		FROM ratings
		GROUP BY store_id
	) t ON t.store_id = s.id`

func (r *repository) Create(ctx context.Context, store *Store) error {
	query := `
		INSERT INTO stores (id, name, email, address, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		store.ID,
		store.Name,
		store.Email,
		store.Address,
		store.OwnerID,
	).Scan(&store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create store: %w", ErrOwnerNotFound)
		}
		return fmt.Errorf("create store: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Store, error) {
	var store Store
	err := r.db.GetContext(ctx, &store, storeSelect+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) || core.IsInvalidID(err) {
		return nil, fmt.Errorf("get store: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}

	return &store, nil
}

func (r *repository) List(
	ctx context.Context,
	filter Filter,
) ([]Store, int, error) {
	filter.Normalize()

	orderBy, err := filter.sort().Clause()
	if err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}

	var where core.Where
	where.ILike("s.name", filter.Name)
	where.ILike("s.email", filter.Email)
	where.ILike("s.address", filter.Address)

	var total int
	countQuery := `SELECT COUNT(*) FROM stores s ` + where.Clause()
	if err := r.db.GetContext(ctx, &total, countQuery, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count stores: %w", err)
	}

	next := where.Next()
	query := fmt.Sprintf(`%s
		%s
		%s, s.id
		LIMIT $%d OFFSET $%d`,
		storeSelect, where.Clause(), orderBy, next, next+1)

	args := append(where.Args(), filter.PageSize, filter.Offset())

	stores := []Store{}
	if err := r.db.SelectContext(ctx, &stores, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list stores: %w", err)
	}

	return stores, total, nil
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]Store, error) {
	query := storeSelect + ` WHERE s.owner_id = $1 ORDER BY s.name, s.id`

	stores := []Store{}
	if err := r.db.SelectContext(ctx, &stores, query, ownerID); err != nil {
		if core.IsInvalidID(err) {
			return stores, nil
		}
		return nil, fmt.Errorf("list stores by owner: %w", err)
	}

	return stores, nil
}

func (r *repository) OwnerOf(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.db.GetContext(ctx, &ownerID, `SELECT owner_id FROM stores WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) || core.IsInvalidID(err) {
		return "", fmt.Errorf("store owner: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("store owner: %w", err)
	}

	return ownerID, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM stores`); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return n, nil
}
