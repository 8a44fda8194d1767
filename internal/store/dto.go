// AngelaMos | 2026
// dto.go

package store

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type CreateStoreRequest struct {
	Name    string `json:"name"     validate:"required,min=1,max=100"`
	Email   string `json:"email"    validate:"required,email,max=255"`
	Address string `json:"address"  validate:"max=400"`
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

type StoreResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       string    `json:"owner_id"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	UserRating    *int      `json:"user_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter is the store listing query. Every field is optional.
type Filter struct {
	Name      string
	Email     string
	Address   string
	SortBy    string
	SortOrder string
	core.Page
}

const averageExpr = `COALESCE(t.total::numeric / NULLIF(t.cnt, 0), 0)`

var sortColumns = map[string]string{
	"name":           "s.name",
	"email":          "s.email",
	"address":        "s.address",
	"created_at":     "s.created_at",
	"average_rating": averageExpr,
}

func (f Filter) sort() core.Sort {
	return core.Sort{
		By:      f.SortBy,
		Order:   f.SortOrder,
		Columns: sortColumns,
		Default: "name",
	}
}

func ToStoreResponse(l *Listing) StoreResponse {
	summary := l.Summary()
	return StoreResponse{
		ID:            l.ID,
		Name:          l.Name,
		Email:         l.Email,
		Address:       l.Address,
		OwnerID:       l.OwnerID,
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
		UserRating:    l.UserRating,
		CreatedAt:     l.CreatedAt,
	}
}

func ToStoreResponseList(items []Listing) []StoreResponse {
	out := make([]StoreResponse, 0, len(items))
	for i := range items {
		out = append(out, ToStoreResponse(&items[i]))
	}
	return out
}
