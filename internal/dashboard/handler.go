// AngelaMos | 2026
// handler.go

package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/owner/dashboard", h.MyDashboard)
		r.Get("/owners/{ownerID}/dashboard", h.OwnerDashboard)
		r.Get("/stores/{storeID}/stats", h.StoreStats)

		r.With(adminOnly).Get("/admin/users/{userID}", h.UserDetail)
	})
}

func (h *Handler) MyDashboard(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())

	dash, err := h.service.OwnerRollup(r.Context(), actor, actor.ID)
	if err != nil {
		writeError(w, r, err, "owner")
		return
	}

	core.OK(w, dash)
}

func (h *Handler) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.OwnerRollup(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "ownerID"),
	)
	if err != nil {
		writeError(w, r, err, "owner")
		return
	}

	core.OK(w, dash)
}

func (h *Handler) StoreStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.StoreStats(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "storeID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NewAppError(
				err, "store not found", http.StatusNotFound, "STORE_NOT_FOUND",
			))
			return
		}
		writeError(w, r, err, "store")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) UserDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.UserDetail(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		writeError(w, r, err, "user")
		return
	}

	core.OK(w, detail)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	default:
		core.StorageFailure(w, r, err)
	}
}
