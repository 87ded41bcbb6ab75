package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bountyboard/points-ledger/internal/api/middleware"
	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
	"github.com/bountyboard/points-ledger/internal/core/service"
	"github.com/bountyboard/points-ledger/internal/infrastructure/db/memory"
)

const (
	jwtSecret = "router-test-secret"
	adminID   = 1
)

func newTestRouter(t *testing.T, seed domain.Ledger) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	store := memory.NewStore(seed)
	gate := service.NewAdminGate([]int64{adminID})
	ledger := service.NewLedgerService(store, gate, nil, service.Options{Policy: domain.BalancePolicy{AllowNegative: true}}, zerolog.Nop())

	return NewRouter(Deps{
		Ledger:  ledger,
		Auth:    service.NewAuthService(gate, string(hash), jwtSecret, time.Hour),
		Health:  map[string]ports.Pinger{"store": store},
		AuthCfg: middleware.AuthConfig{JWTSecret: jwtSecret},
		Log:     zerolog.Nop(),
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, id int64) string {
	t.Helper()
	token, err := service.NewAuthService(service.NewAdminGate([]int64{id}), mustHash(t), jwtSecret, time.Hour).
		Login(context.Background(), domain.Identity(id), "pw")
	require.NoError(t, err)
	return token
}

func mustHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/ready", "", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "points_profiles")
}

func TestRouter_TokenFlow(t *testing.T) {
	h := newTestRouter(t, domain.Ledger{2: {DisplayName: "@bob", Balance: 0}})

	rec := do(t, h, http.MethodPost, "/auth/token", "", `{"actor_id":1,"password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/auth/token", "", `{"actor_id":2,"password":"pw"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdjustAndRead(t *testing.T) {
	h := newTestRouter(t, domain.Ledger{2: {DisplayName: "@bob", Balance: 0}})
	admin := login(t, h, adminID)

	rec := do(t, h, http.MethodPost, "/v1/adjustments", admin, `{"target":"bob","delta":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/leaderboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points":7`)

	rec = do(t, h, http.MethodGet, "/v1/ledger", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2": {`)
}

func TestRouter_ErrorMapping(t *testing.T) {
	h := newTestRouter(t, domain.Ledger{2: {DisplayName: "@bob", Balance: 0}})
	admin := login(t, h, adminID)
	member := login(t, h, 2)

	cases := []struct {
		name  string
		token string
		body  string
		want  int
	}{
		{"no token", "", `{"target":"bob","delta":1}`, http.StatusUnauthorized},
		{"not privileged", member, `{"target":"bob","delta":1}`, http.StatusForbidden},
		{"zero amount", admin, `{"target":"bob","delta":0}`, http.StatusUnprocessableEntity},
		{"unknown target", admin, `{"target":"ghost","delta":1}`, http.StatusNotFound},
		{"missing target", admin, `{"delta":1}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/adjustments", tc.token, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestRouter_LedgerExportNeedsOperator(t *testing.T) {
	h := newTestRouter(t, nil)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/v1/ledger", "", "").Code)
}

func TestRouter_MeCreatesProfile(t *testing.T) {
	h := newTestRouter(t, nil)
	member := login(t, h, 9)

	rec := do(t, h, http.MethodGet, "/v1/me", member, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created":true`)
}
