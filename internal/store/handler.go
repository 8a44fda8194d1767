// AngelaMos | 2026
// handler.go

package store

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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/stores", h.List)
		r.Get("/stores/{storeID}", h.Get)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)
		r.Get("/admin/stores", h.AdminList)
		r.Post("/admin/stores", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	items, total, err := h.service.List(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		filter,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.Paginated(w, ToStoreResponseList(items), filter.Page.Page, filter.PageSize, total)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	items, total, err := h.service.AdminList(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		filter,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.Paginated(w, ToStoreResponseList(items), filter.Page.Page, filter.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "storeID"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.OK(w, ToStoreResponse(item))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	store, err := h.service.Create(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.Created(w, ToStoreResponse(&Listing{Store: *store}))
}

func parseFilter(r *http.Request) Filter {
	q := r.URL.Query()
	f := Filter{
		Name:      q.Get("name"),
		Email:     q.Get("email"),
		Address:   q.Get("address"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page: core.Page{
			Page:     intParam(q.Get("page"), 1),
			PageSize: intParam(q.Get("page_size"), core.DefaultPageSize),
		},
	}
	f.Normalize()
	return f
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		core.JSONError(w, core.NewAppError(
			err, "owner not found", http.StatusNotFound, "OWNER_NOT_FOUND",
		))
	case errors.Is(err, ErrInvalidOwner):
		core.JSONError(w, core.NewAppError(
			err, "owner must have role store_owner", http.StatusBadRequest, "INVALID_OWNER",
		))
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.NewAppError(
			err, "store not found", http.StatusNotFound, "STORE_NOT_FOUND",
		))
	case errors.Is(err, core.ErrInvalidInput):
		core.JSONError(w, core.NewAppError(
			err, err.Error(), http.StatusBadRequest, "INVALID_SORT",
		))
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	default:
		core.StorageFailure(w, r, err)
	}
}
