// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/dashboard"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type GlobalStatsProvider interface {
	GlobalStats(ctx context.Context, actor authz.Identity) (*dashboard.GlobalStats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerConfig struct {
	Stats      GlobalStatsProvider
	DB         Pinger
	DBStats    func() sql.DBStats
	Redis      Pinger
	RedisStats func() *redis.PoolStats
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/dashboard", h.Dashboard)
		r.Get("/admin/system", h.System)
	})
}

// Dashboard reports platform-wide user, store and rating counts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cfg.Stats.GlobalStats(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "")
			return
		}
		core.StorageFailure(w, r, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) System(w http.ResponseWriter, r *http.Request) {
	resp := SystemStatsResponse{
		Database: ComponentStatus[DBPoolStats]{Healthy: healthy(r.Context(), h.cfg.DB)},
		Redis:    ComponentStatus[RedisPoolStats]{Healthy: healthy(r.Context(), h.cfg.Redis)},
		Runtime:  readRuntimeStats(),
	}
	if h.cfg.DBStats != nil {
		resp.Database.Stats = toDBPoolStats(h.cfg.DBStats())
	}
	if h.cfg.RedisStats != nil {
		resp.Redis.Stats = toRedisPoolStats(h.cfg.RedisStats())
	}

	core.OK(w, resp)
}

func healthy(ctx context.Context, p Pinger) bool {
	return p != nil && p.Ping(ctx) == nil
}
