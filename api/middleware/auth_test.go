package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stockroom-backend/internal/authz"
	"github.com/angelmondragon/stockroom-backend/pkg/auth"
	"github.com/angelmondragon/stockroom-backend/pkg/auth/session"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, enums.StaffRoleManager, false)
	for name, verifier := range map[string]stubSessionVerifier{
		"revoked": {ok: false},
		"down":    {err: errors.New("redis down")},
	} {
		t.Run(name, func(t *testing.T) {
			handler := Auth(testJWT, verifier, nil)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code == http.StatusOK {
				t.Fatalf("expected rejection, got 200")
			}
		})
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	token := mintTestToken(t, enums.StaffRoleSalesman, false)

	var (
		user, actor, role, accessID string
		principal                   authz.Principal
	)
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserIDFromContext(r.Context())
		actor = ActorFromContext(r.Context())
		role = RoleFromContext(r.Context())
		accessID = AccessIDFromContext(r.Context())
		principal = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if user == "" || accessID == "" {
		t.Fatal("expected user and access id in context")
	}
	if actor != "staff@example.com" {
		t.Fatalf("expected actor email, got %q", actor)
	}
	if role != string(enums.StaffRoleSalesman) || principal.IsSuperuser {
		t.Fatalf("unexpected role %s superuser=%v", role, principal.IsSuperuser)
	}
}

func TestRequireCapability(t *testing.T) {
	checker := authz.NewChecker(authz.DefaultPolicy())
	cases := []struct {
		name      string
		role      enums.StaffRole
		superuser bool
		cap       authz.Capability
		want      int
	}{
		{"salesman reads catalog", enums.StaffRoleSalesman, false, authz.CatalogRead, http.StatusOK},
		{"salesman cannot write catalog", enums.StaffRoleSalesman, false, authz.CatalogWrite, http.StatusForbidden},
		{"manager cannot manage users", enums.StaffRoleManager, false, authz.UsersManage, http.StatusForbidden},
		{"superuser manages users", "", true, authz.UsersManage, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireCapability(checker, tc.cap, nil)(okHandler())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), uuid.NewString(), "someone", tc.role, tc.superuser))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestRequireCapabilityWithoutIdentity(t *testing.T) {
	handler := RequireCapability(authz.NewChecker(authz.DefaultPolicy()), authz.CatalogRead, nil)(okHandler())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func mintTestToken(t *testing.T, role enums.StaffRole, superuser bool) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{
		UserID:      uuid.New(),
		Email:       "staff@example.com",
		Role:        role,
		IsSuperuser: superuser,
		JTI:         session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
