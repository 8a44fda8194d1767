// AngelaMos | 2026
// dto.go

package rating

import (
	"time"
)

// SubmitRequest takes the score as a float so that 3.5 is rejected
// rather than silently truncated by the decoder.
type SubmitRequest struct {
	StoreID string   `json:"store_id" validate:"required,uuid"`
	Rating  *float64 `json:"rating"   validate:"required"`
}

type RatingResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubmitResponse struct {
	Rating RatingResponse `json:"rating"`
	Store  StoreStats     `json:"store"`
}

type StoreStats struct {
	ID string `json:"id"`
	Summary
}

type UserRatingResponse struct {
	RatingResponse
	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address"`
}

type StoreRatingResponse struct {
	RatingResponse
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

func ToRatingResponse(r *Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Rating:    r.Value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToUserRatingList(rows []UserRating) []UserRatingResponse {
	out := make([]UserRatingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, UserRatingResponse{
			RatingResponse: ToRatingResponse(&rows[i].Rating),
			StoreName:      rows[i].StoreName,
			StoreAddress:   rows[i].StoreAddress,
		})
	}
	return out
}

func ToStoreRatingList(rows []StoreRating) []StoreRatingResponse {
	out := make([]StoreRatingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, StoreRatingResponse{
			RatingResponse: ToRatingResponse(&rows[i].Rating),
			UserName:       rows[i].UserName,
			UserEmail:      rows[i].UserEmail,
		})
	}
	return out
}
