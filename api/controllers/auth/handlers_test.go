package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	"github.com/angelmondragon/stockroom-backend/internal/auth"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

type stubAuthService struct {
	login  func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	logout func(ctx context.Context, accessID string) error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.login(ctx, req)
}

func (s stubAuthService) Logout(ctx context.Context, accessID string) error {
	return s.logout(ctx, accessID)
}

func TestLoginReturnsToken(t *testing.T) {
	svc := stubAuthService{login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
		assert.Equal(t, "clerk@example.com", req.Email)
		return &auth.LoginResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"clerk@example.com","password":"hunter22"}`))
	resp := httptest.NewRecorder()
	Login(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "tok", resp.Header().Get(TokenHeader))

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	svc := stubAuthService{login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	resp := httptest.NewRecorder()
	Login(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLoginPropagatesUnauthorized(t *testing.T) {
	svc := stubAuthService{login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"clerk@example.com","password":"wrong"}`))
	resp := httptest.NewRecorder()
	Login(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutRevokesCurrentSession(t *testing.T) {
	var revoked string
	svc := stubAuthService{logout: func(ctx context.Context, accessID string) error {
		revoked = accessID
		return nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	ctx := middleware.WithIdentity(req.Context(), "user-1", "clerk@example.com", enums.StaffRoleSalesman, false)
	ctx = middleware.WithAccessID(ctx, "jti-1")
	resp := httptest.NewRecorder()
	Logout(svc, nil).ServeHTTP(resp, req.WithContext(ctx))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "jti-1", revoked)
}

func TestLogoutStoreFailure(t *testing.T) {
	svc := stubAuthService{logout: func(ctx context.Context, accessID string) error {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "revoke session")
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	Logout(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestMeEchoesIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), "u-1", "boss@example.com", "", true))
	resp := httptest.NewRecorder()
	Me(nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data Identity `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, Identity{UserID: "u-1", Email: "boss@example.com", IsSuperuser: true}, envelope.Data)
}

func TestMeWithoutIdentity(t *testing.T) {
	resp := httptest.NewRecorder()
	Me(nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
