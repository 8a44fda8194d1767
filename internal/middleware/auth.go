// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

const callerKey contextKey = "caller"

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error)
}

// AccessTokenClaims is the verified content of an access token.
type AccessTokenClaims struct {
	UserID       string
	Role         string
	TokenVersion int
	JTI          string
	ExpiresAt    time.Time
}

type caller struct {
	identity authz.Identity
	claims   *AccessTokenClaims
}

// Authenticator rejects requests without a valid bearer token and
// attaches the verified caller to the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				core.JSONError(w, core.UnauthorizedError("missing authorization token"))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, tokenError(err))
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller{
				identity: authz.Identity{ID: claims.UserID, Role: claims.Role},
				claims:   claims,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity attaches an identity without token claims.
func WithIdentity(ctx context.Context, id authz.Identity) context.Context {
	return context.WithValue(ctx, callerKey, caller{identity: id})
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r.Context())
			switch {
			case id.IsZero():
				core.JSONError(w, core.UnauthorizedError("authentication required"))
			case !slices.Contains(roles, id.Role):
				core.JSONError(w, core.ForbiddenError("insufficient permissions"))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(authz.RoleAdmin)(next)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenError(err error) error {
	switch {
	case core.IsAppError(err):
		return err
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	default:
		return core.TokenInvalidError()
	}
}

func GetIdentity(ctx context.Context) authz.Identity {
	c, _ := ctx.Value(callerKey).(caller)
	return c.identity
}

func GetUserID(ctx context.Context) string {
	return GetIdentity(ctx).ID
}

// GetClaims is nil for callers attached through WithIdentity.
func GetClaims(ctx context.Context) *AccessTokenClaims {
	c, _ := ctx.Value(callerKey).(caller)
	return c.claims
}
