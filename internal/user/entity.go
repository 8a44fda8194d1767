// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/authz"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Address      string    `db:"address"`
	Role         string    `db:"role"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsStoreOwner() bool {
	return u.Role == authz.RoleStoreOwner
}
