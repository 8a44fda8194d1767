// AngelaMos | 2026
// handler.go

package rating

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/store-ratings/internal/authz"
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

// RegisterRoutes mounts the rating endpoints. submitLimiter throttles
// POST /ratings per caller role.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, submitLimiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(submitLimiter).Post("/ratings", h.Submit)
		r.Get("/ratings/me", h.Mine)
		r.Get("/users/{userID}/ratings", h.ByUser)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Submit(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		req.StoreID,
		*req.Rating,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body := SubmitResponse{
		Rating: ToRatingResponse(&res.Rating),
		Store:  StoreStats{ID: req.StoreID, Summary: res.Stats},
	}
	if res.Created {
		core.Created(w, body)
		return
	}
	core.OK(w, body)
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetIdentity(r.Context())
	h.list(w, r, actor, actor.ID)
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, middleware.GetIdentity(r.Context()), chi.URLParam(r, "userID"))
}

func (h *Handler) list(
	w http.ResponseWriter,
	r *http.Request,
	actor authz.Identity,
	userID string,
) {
	rows, err := h.service.RatingsByUser(r.Context(), actor, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	core.OK(w, ToUserRatingList(rows))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidRating):
		core.JSONError(w, core.NewAppError(
			err, ErrInvalidRating.Error(), http.StatusBadRequest, "INVALID_RATING",
		))
	case errors.Is(err, ErrStoreNotFound):
		core.JSONError(w, core.NewAppError(
			err, "store not found", http.StatusNotFound, "STORE_NOT_FOUND",
		))
	case errors.Is(err, authz.ErrSelfRating):
		core.JSONError(w, core.NewAppError(
			err, "you cannot rate your own store", http.StatusForbidden, "SELF_RATING_NOT_ALLOWED",
		))
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "rating")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.StorageFailure(w, r, err)
	}
}
