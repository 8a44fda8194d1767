// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

type verifierFunc func(ctx context.Context, token string) (*AccessTokenClaims, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error) {
	return f(ctx, token)
}

func stubVerifier(valid map[string]*AccessTokenClaims, failWith error) TokenVerifier {
	return verifierFunc(func(_ context.Context, token string) (*AccessTokenClaims, error) {
		if c, ok := valid[token]; ok {
			return c, nil
		}
		return nil, failWith
	})
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetIdentity(r.Context())
		core.OK(w, map[string]string{"id": id.ID, "role": id.Role})
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestAuthenticator(t *testing.T) {
	claims := &AccessTokenClaims{UserID: "u-1", Role: authz.RoleUser, JTI: "j-1"}
	valid := map[string]*AccessTokenClaims{"good": claims}

	tests := []struct {
		name     string
		header   string
		failWith error
		status   int
		code     string
	}{
		{"missing header", "", core.ErrTokenInvalid, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic good", core.ErrTokenInvalid, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", "Bearer old", core.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"revoked", "Bearer gone", core.ErrTokenRevoked, http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"garbage", "Bearer junk", core.ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := Authenticator(stubVerifier(valid, tc.failWith))(echoIdentity())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}

	t.Run("valid token attaches identity", func(t *testing.T) {
		var got *AccessTokenClaims
		h := Authenticator(stubVerifier(valid, nil))(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				got = GetClaims(r.Context())
				echoIdentity().ServeHTTP(w, r)
			},
		))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer good")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Same(t, claims, got)
		assert.JSONEq(t,
			`{"success":true,"data":{"id":"u-1","role":"user"}}`,
			rec.Body.String(),
		)
	})
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole(authz.RoleStoreOwner, authz.RoleAdmin)(echoIdentity())

	tests := []struct {
		name   string
		id     authz.Identity
		status int
	}{
		{"anonymous", authz.Identity{}, http.StatusUnauthorized},
		{"user", authz.Identity{ID: "u", Role: authz.RoleUser}, http.StatusForbidden},
		{"owner", authz.Identity{ID: "o", Role: authz.RoleStoreOwner}, http.StatusOK},
		{"admin", authz.Identity{ID: "a", Role: authz.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if !tc.id.IsZero() {
				req = req.WithContext(WithIdentity(req.Context(), tc.id))
			}
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), authz.Identity{ID: "o", Role: authz.RoleStoreOwner}))

	rec := httptest.NewRecorder()
	RequireAdmin(echoIdentity()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
}
