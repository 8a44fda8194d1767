// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/users/me", h.GetMe)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetMe(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// RegisterAdminRoutes registers admin-only user management endpoints.
// GET /admin/users/{userID} is served by the dashboard package.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/users", h.ListUsers)
		r.Post("/admin/users", h.CreateUser)
	})
}

// ListUsers returns a filtered, sorted, paginated page of users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		Address:   q.Get("address"),
		Role:      q.Get("role"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page: core.Page{
			Page:     parseIntQuery(r, "page", 1),
			PageSize: parseIntQuery(r, "page_size", core.DefaultPageSize),
		},
	}
	filter.Normalize()

	users, total, err := h.service.ListUsers(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		filter,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		filter.Page.Page,
		filter.PageSize,
		total,
	)
}

// CreateUser provisions a user of any role (admin only).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.CreateUser(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.StorageFailure(w, r, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
