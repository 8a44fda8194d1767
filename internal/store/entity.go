// AngelaMos | 2026
// entity.go

package store

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/rating"
)

// Store carries its rating totals as read from the ledger at query time.
type Store struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Address     string    `db:"address"`
	OwnerID     string    `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	RatingSum   int64     `db:"rating_sum"`
	RatingCount int64     `db:"rating_count"`
}

func (s *Store) Summary() rating.Summary {
	return rating.Summarize(s.RatingSum, s.RatingCount)
}

// Listing is a store as seen by one caller. UserRating is set only for
// role user callers who have rated the store.
type Listing struct {
	Store
	UserRating *int
}
