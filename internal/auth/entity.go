// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is one link in a rotating refresh-token family. A token
// is spent once; presenting a spent token revokes its whole family.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsUsed && !t.IsRevoked() && !t.IsExpired(now)
}

// UserInfo is the slice of a user account the identity store needs.
type UserInfo struct {
	ID           string
	Email        string
	Name         string
	Address      string
	PasswordHash string
	Role         string
	TokenVersion int
	CreatedAt    time.Time
}

// NewUser carries a self-service registration to the user directory.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	Address      string
}
