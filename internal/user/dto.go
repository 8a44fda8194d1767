// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=60"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Address  string `json:"address"  validate:"max=400"`
	Role     string `json:"role"     validate:"required,oneof=user admin store_owner"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter is the admin user listing query. Every field is optional.
type Filter struct {
	Name      string
	Email     string
	Address   string
	Role      string
	SortBy    string
	SortOrder string
	core.Page
}

var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

func (f Filter) sort() core.Sort {
	return core.Sort{
		By:      f.SortBy,
		Order:   f.SortOrder,
		Columns: sortColumns,
		Default: "name",
	}
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
