package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/api/controllers"
	"github.com/angelmondragon/stockroom-backend/internal/authz"
	pkgAuth "github.com/angelmondragon/stockroom-backend/pkg/auth"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/stockroom-backend/pkg/redis"
)

type stubSessions struct{ live bool }

func (s stubSessions) HasSession(context.Context, string) (bool, error) {
	return s.live, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type memoryCache struct {
	values  map[string]string
	allowed bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, allowed: true}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", pkgredis.ErrNil
}

func (m *memoryCache) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryCache) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (m *memoryCache) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return m.allowed, 1, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", CORSOrigins: []string{"http://localhost:3000"}},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "stockroom-test",
			ExpirationMinutes: 60,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginIPLimit:    20,
			LoginEmailLimit: 5,
		},
	}
}

func testParams(cache *memoryCache) Params {
	return Params{
		Config:      testConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard}),
		Readiness:   map[string]controllers.Pinger{"db": stubPinger{}},
		Sessions:    stubSessions{live: true},
		Idempotency: cache,
		RateLimiter: cache,
		Checker:     authz.NewChecker(authz.DefaultPolicy()),
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.StaffRole, superuser bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:      uuid.New(),
		Email:       "staff@example.com",
		Role:        role,
		IsSuperuser: superuser,
		JTI:         session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func serve(h http.Handler, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	params := testParams(newMemoryCache())
	router := NewRouter(params)

	rec := serve(router, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Stockroom-Env"))

	rec = serve(router, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFailsWhenDependencyDown(t *testing.T) {
	params := testParams(newMemoryCache())
	params.Readiness = map[string]controllers.Pinger{"redis": stubPinger{err: assert.AnError}}
	router := NewRouter(params)

	rec := serve(router, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(testParams(newMemoryCache()))

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/reports/revenue", "/api/v1/users"} {
		rec := serve(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRevokedSessionIsRejected(t *testing.T) {
	params := testParams(newMemoryCache())
	params.Sessions = stubSessions{live: false}
	router := NewRouter(params)

	token := buildToken(t, params.Config, enums.StaffRoleManager, false)
	rec := serve(router, http.MethodGet, "/api/v1/products", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCapabilityEnforcement(t *testing.T) {
	params := testParams(newMemoryCache())
	router := NewRouter(params)
	cfg := params.Config

	manager := buildToken(t, cfg, enums.StaffRoleManager, false)
	salesman := buildToken(t, cfg, enums.StaffRoleSalesman, false)
	superuser := buildToken(t, cfg, "", true)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		// Allowed requests reach the handler, which reports the missing service.
		{"salesman reads catalog", http.MethodGet, "/api/v1/products", salesman, "", http.StatusInternalServerError},
		{"salesman cannot write catalog", http.MethodPost, "/api/v1/products", salesman, `{"name":"x"}`, http.StatusForbidden},
		{"manager writes catalog", http.MethodPost, "/api/v1/products", manager, `{"name":"x"}`, http.StatusInternalServerError},
		{"salesman cannot delete customers", http.MethodDelete, "/api/v1/customers/" + uuid.NewString(), salesman, "", http.StatusForbidden},
		{"salesman reads reports", http.MethodGet, "/api/v1/reports/revenue", salesman, "", http.StatusInternalServerError},
		{"salesman cannot edit company", http.MethodPatch, "/api/v1/company/" + uuid.NewString(), salesman, `{"name":"x"}`, http.StatusForbidden},
		{"manager reads reports", http.MethodGet, "/api/v1/reports/revenue", manager, "", http.StatusInternalServerError},
		{"manager cannot manage users", http.MethodGet, "/api/v1/users", manager, "", http.StatusForbidden},
		{"superuser manages users", http.MethodGet, "/api/v1/users", superuser, "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(router, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
			}
		})
	}
}

func TestOrderCreationRequiresIdempotencyKey(t *testing.T) {
	params := testParams(newMemoryCache())
	router := NewRouter(params)
	token := buildToken(t, params.Config, enums.StaffRoleSalesman, false)

	rec := serve(router, http.MethodPost, "/api/v1/orders", token, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	// Updates are not keyed.
	rec = serve(router, http.MethodPut, "/api/v1/orders/"+uuid.NewString(), token, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	cache := newMemoryCache()
	cache.allowed = false
	router := NewRouter(testParams(cache))

	rec := serve(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(testParams(newMemoryCache()))

	rec := serve(router, http.MethodOptions, "/api/v1/orders", "", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, http.MethodOptions, "/api/v1/orders", "", "",
		"Origin", "http://evil.example",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRouteOptional(t *testing.T) {
	params := testParams(newMemoryCache())
	rec := serve(NewRouter(params), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	params.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	rec = serve(NewRouter(params), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}
