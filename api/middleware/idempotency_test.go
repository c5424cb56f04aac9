package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	pkgredis "github.com/angelmondragon/stockroom-backend/pkg/redis"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", pkgredis.ErrNil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/api/v1/orders", true},
		{http.MethodPost, "/api/v1/orders/", true},
		{http.MethodPost, "/api/v1/purchase-expenses", true},
		{http.MethodPost, "/api/v1/purchase-products", true},
		{http.MethodPut, "/api/v1/orders/123", false},
		{http.MethodGet, "/api/v1/orders", false},
		{http.MethodPost, "/api/v1/products", false},
	}
	for _, tc := range tests {
		ttl, ok := routeTTL(tc.method, tc.path)
		assert.Equal(t, tc.want, ok, "%s %s", tc.method, tc.path)
		if ok {
			assert.Equal(t, defaultIdempotencyTTL, ttl)
		}
	}
}

func countingHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"call":%d,"len":%d}`, *calls, len(body))
	})
}

func postOrder(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	req = req.WithContext(WithIdentity(req.Context(), "user-1", "alice", "Salesman", false))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated))

	first := postOrder(handler, "key-1", `{"items":[]}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postOrder(handler, "key-1", `{"items":[]}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Empty(t, first.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusCreated))

	postOrder(handler, "key-1", `{"items":[1]}`)
	resp := postOrder(handler, "key-1", `{"items":[2]}`)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), string(pkgerrors.CodeIdempotency))
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls, http.StatusCreated))
	resp := postOrder(handler, "", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotencyDoesNotStoreServerErrors(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, nil)(countingHandler(&calls, http.StatusServiceUnavailable))

	postOrder(handler, "key-1", `{}`)
	postOrder(handler, "key-1", `{}`)
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencySkipsUnkeyedRoutes(t *testing.T) {
	calls := 0
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls, http.StatusOK))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, calls)
}
