// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Claim(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

const tokenColumns = `id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, `
		INSERT INTO refresh_tokens
			(id, user_id, token_hash, family_id, expires_at, user_agent, ip_address)
		VALUES
			(:id, :user_id, :token_hash, :family_id, :expires_at, :user_agent, :ip_address)
		RETURNING created_at`, token)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	if !rows.Next() {
		return fmt.Errorf("insert refresh token: %w", errors.Join(sql.ErrNoRows, rows.Err()))
	}
	if err := rows.Scan(&token.CreatedAt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	var token RefreshToken
	err := r.db.GetContext(ctx, &token,
		`SELECT `+tokenColumns+` FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, core.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	return &token, nil
}

// Claim marks a token spent and links it to its successor. The guarded
// UPDATE lets exactly one concurrent caller win; the rest see
// ErrTokenReuse.
func (r *repository) Claim(ctx context.Context, id, replacedByID string) error {
	n, err := affected(r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		   SET is_used = TRUE, used_at = NOW(), replaced_by_id = $2
		 WHERE id = $1 AND NOT is_used AND revoked_at IS NULL`,
		id, replacedByID))
	if err != nil {
		return fmt.Errorf("claim refresh token: %w", err)
	}
	if n == 0 {
		return ErrTokenReuse
	}
	return nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	return r.revokeWhere(ctx, "id", id)
}

func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	return r.revokeWhere(ctx, "family_id", familyID)
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.revokeWhere(ctx, "user_id", userID)
}

// revokeWhere stamps revoked_at on live tokens matching column. column
// is always one of the constants above, never caller input.
func (r *repository) revokeWhere(ctx context.Context, column, value string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW()
		  WHERE `+column+` = $1 AND revoked_at IS NULL`, value)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens by %s: %w", column, err)
	}
	return nil
}

func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	n, err := affected(r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before))
	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return n, nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
