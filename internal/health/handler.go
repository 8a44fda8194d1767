// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a named backend that readiness depends on.
type Dependency struct {
	Name    string
	Checker Checker
}

type Handler struct {
	deps     []Dependency
	ready    atomic.Bool
	draining atomic.Bool
}

func NewHandler(deps ...Dependency) *Handler {
	h := &Handler{deps: deps}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.draining.Load() {
		writeStatus(w, http.StatusServiceUnavailable, Status{Status: "shutting_down"})
		return
	}

	writeStatus(w, http.StatusOK, Status{Status: "ok"})
}

// Readiness pings every dependency concurrently and reports 503 if any
// of them fails or the server is draining.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.draining.Load():
		writeStatus(w, http.StatusServiceUnavailable, Status{Status: "shutting_down"})
		return
	case !h.ready.Load():
		writeStatus(w, http.StatusServiceUnavailable, Status{Status: "not_ready"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := h.check(ctx)

	resp := Status{Status: "ok", Checks: checks}
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeStatus(w, code, resp)
}

func (h *Handler) check(ctx context.Context) []Check {
	checks := make([]Check, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Go(func() {
			checks[i] = ping(ctx, dep)
		})
	}
	wg.Wait()

	return checks
}

func ping(ctx context.Context, dep Dependency) Check {
	c := Check{Name: dep.Name}
	if dep.Checker == nil {
		c.Message = "not configured"
		return c
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	c.Latency = time.Since(start).String()
	c.Healthy = err == nil
	if err != nil {
		c.Message = "ping failed"
	}

	return c
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Drain flips both probes to 503 ahead of shutdown.
func (h *Handler) Drain() {
	h.draining.Store(true)
}

func writeStatus(w http.ResponseWriter, code int, body Status) {
	w.Header().Set("Cache-Control", "no-store")
	core.JSON(w, code, body)
}

type Status struct {
	Status string  `json:"status"`
	Checks []Check `json:"checks,omitempty"`
}

type Check struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
