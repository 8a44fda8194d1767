// AngelaMos | 2026
// entity.go

package rating

import (
	"time"
)

// Rating is one user's score for one store. (UserID, StoreID) is unique.
type Rating struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	StoreID   string    `db:"store_id"`
	Value     int       `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// StoreRating is a rating joined with the rater, as a store owner sees it.
type StoreRating struct {
	Rating
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}

// UserRating is a rating joined with the store it targets.
type UserRating struct {
	Rating
	StoreName    string `db:"store_name"`
	StoreAddress string `db:"store_address"`
}
