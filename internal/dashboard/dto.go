// AngelaMos | 2026
// dto.go

package dashboard

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

type StoreStats struct {
	StoreID string `json:"store_id"`
	rating.Summary
}

type StoreSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	rating.Summary
}

type OwnerStore struct {
	StoreSummary
	Ratings []rating.StoreRatingResponse `json:"ratings"`
}

type OwnerDashboard struct {
	OwnerID      string       `json:"owner_id"`
	TotalStores  int          `json:"total_stores"`
	TotalRatings int64        `json:"total_ratings"`
	Overall      float64      `json:"overall_average"`
	Stores       []OwnerStore `json:"stores"`
}

type GlobalStats struct {
	TotalUsers   int   `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// UserDetail is the admin view of one account. Stores and OwnerAverage
// are present only for store owners.
type UserDetail struct {
	user.UserResponse
	Stores       []StoreSummary `json:"stores,omitempty"`
	OwnerAverage *float64       `json:"owner_average,omitempty"`
}

func toStoreSummary(s *store.Store) StoreSummary {
	return StoreSummary{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
		Summary:   s.Summary(),
	}
}
