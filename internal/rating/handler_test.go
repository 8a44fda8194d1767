// AngelaMos | 2026
// handler_test.go

package rating

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/authz"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func newHandlerFixture() (*Handler, string) {
	storeID := uuid.NewString()
	mem := newMemLedger(map[string]string{storeID: ownerO.ID})
	return NewHandler(NewService(mem, mem)), storeID
}

func serve(
	t *testing.T,
	h http.HandlerFunc,
	actor authz.Identity,
	method, target, body string,
	params map[string]string,
) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithIdentity(req.Context(), actor)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rec := httptest.NewRecorder()
	h(rec, req.WithContext(ctx))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func submitBody(storeID, value string) string {
	return `{"store_id":"` + storeID + `","rating":` + value + `}`
}

func TestSubmitHandler(t *testing.T) {
	h, storeID := newHandlerFixture()

	rec, env := serve(t, h.Submit, userA, http.MethodPost, "/ratings", submitBody(storeID, "5"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var first SubmitResponse
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, 5, first.Rating.Rating)
	assert.Equal(t, storeID, first.Store.ID)
	assert.Equal(t, Summary{AverageRating: 5, RatingCount: 1}, first.Store.Summary)

	rec, env = serve(t, h.Submit, userA, http.MethodPost, "/ratings", submitBody(storeID, "2"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var second SubmitResponse
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.Rating.ID, second.Rating.ID)
	assert.Equal(t, Summary{AverageRating: 2, RatingCount: 1}, second.Store.Summary)
}

func TestSubmitHandlerErrors(t *testing.T) {
	h, storeID := newHandlerFixture()

	tests := []struct {
		name   string
		actor  authz.Identity
		body   string
		status int
		code   string
	}{
		{"malformed json", userA, `{"store_id":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown field", userA, `{"store_id":"` + storeID + `","rating":3,"comment":"hi"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing rating", userA, `{"store_id":"` + storeID + `"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad store id", userA, submitBody("nope", "3"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"out of range", userA, submitBody(storeID, "6"), http.StatusBadRequest, "INVALID_RATING"},
		{"fractional", userA, submitBody(storeID, "3.5"), http.StatusBadRequest, "INVALID_RATING"},
		{"unknown store", userA, submitBody(uuid.NewString(), "3"), http.StatusNotFound, "STORE_NOT_FOUND"},
		{"own store", ownerO, submitBody(storeID, "3"), http.StatusForbidden, "SELF_RATING_NOT_ALLOWED"},
		{"admin", adminZ, submitBody(storeID, "3"), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := serve(t, h.Submit, tc.actor, http.MethodPost, "/ratings", tc.body, nil)
			assert.Equal(t, tc.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestByUserHandler(t *testing.T) {
	h, storeID := newHandlerFixture()
	_, _ = serve(t, h.Submit, userA, http.MethodPost, "/ratings", submitBody(storeID, "4"), nil)

	rec, env := serve(t, h.ByUser, adminZ, http.MethodGet, "/users/x/ratings", "",
		map[string]string{"userID": userA.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []UserRatingResponse
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Rating)

	rec, _ = serve(t, h.ByUser, userB, http.MethodGet, "/users/x/ratings", "",
		map[string]string{"userID": userA.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = serve(t, h.Mine, userB, http.MethodGet, "/ratings/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}
