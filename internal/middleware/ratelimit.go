// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

// limiter consults Redis and falls back to an in-process token bucket
// per key when Redis is unreachable.
type limiter struct {
	redis *redis_rate.Limiter
	local *localBuckets
}

func newLimiter(rdb *redis.Client) *limiter {
	return &limiter{
		redis: redis_rate.NewLimiter(rdb),
		local: &localBuckets{buckets: map[string]*bucket{}},
	}
}

func (l *limiter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, bool) {
	res, err := l.redis.Allow(ctx, key, limit)
	if err == nil {
		return res, true
	}

	slog.WarnContext(ctx, "rate limiter using local fallback", "key", key, "error", err)
	return l.local.allow(key, limit, time.Now()), false
}

type RateLimiter struct {
	limiter *limiter
	config  RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	return &RateLimiter{limiter: newLimiter(rdb), config: cfg}
}

// Handler enforces the global budget. With FailOpen unset, a Redis
// outage rejects requests instead of using the local buckets.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, fromRedis := rl.limiter.allow(r.Context(), rl.config.KeyFunc(r), rl.config.Limit)
		if !fromRedis && !rl.config.FailOpen {
			core.JSONError(w, core.NewAppError(
				nil, "rate limiter unavailable", http.StatusServiceUnavailable, "UNAVAILABLE",
			))
			return
		}

		if !admit(w, res, rl.config.Limit) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RoleLimiter applies a per-minute budget chosen by the caller's role,
// keyed by user and endpoint. Roles missing from limits are not limited.
func RoleLimiter(
	rdb *redis.Client,
	limits map[string]int,
) func(http.Handler) http.Handler {
	l := newLimiter(rdb)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetIdentity(r.Context()).Role
			perMinute, ok := limits[role]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			limit := PerMinute(perMinute, max(1, perMinute/5))
			res, _ := l.allow(r.Context(), KeyByUserAndEndpoint(r), limit)

			w.Header().Set("X-RateLimit-Role", role)
			if !admit(w, res, limit) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func PerMinute(perMinute, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: perMinute, Burst: burst, Period: time.Minute}
}

// admit writes the rate limit headers and, when the request is over
// budget, a 429 response. It reports whether the request may proceed.
func admit(w http.ResponseWriter, res *redis_rate.Result, limit redis_rate.Limit) bool {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))

	if res.Allowed > 0 {
		return true
	}

	retry := max(1, int(res.RetryAfter.Seconds()))
	h.Set("Retry-After", strconv.Itoa(retry))
	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retry),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
	return false
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != "" {
		return "ratelimit:user:" + id
	}
	return KeyByIP(r)
}

func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":endpoint:" + normalizeEndpoint(r.URL.Path)
}

// normalizeEndpoint folds ids out of a path so that /stores/<a> and
// /stores/<b> share one budget.
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := uuid.Parse(part); err == nil && len(part) == 36 {
			parts[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

const bucketTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets evicts idle keys lazily on access.
type localBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func (l *localBuckets) allow(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)

	l.mu.Lock()
	if now.Sub(l.lastSweep) > bucketTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := int(b.limiter.TokensAt(now))
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(0, remaining),
		ResetAfter: interval,
		RetryAfter: -1,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}
