package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/outletplus/pos-backend/pkg/auth"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/enums"
)

var authTestJWT = config.JWTConfig{
	Secret:            "middleware-secret",
	Issuer:            "outletpos",
	ExpirationMinutes: 15,
}

type sessionCheckerFunc func(ctx context.Context, accessID string) (bool, error)

func (f sessionCheckerFunc) HasSession(ctx context.Context, accessID string) (bool, error) {
	return f(ctx, accessID)
}

func mintTestToken(t *testing.T, role enums.UserRole, permissions []enums.Permission) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(authTestJWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        role,
		Permissions: permissions,
		JTI:         "test-access-id",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContext(t *testing.T) {
	token := mintTestToken(t, enums.UserRoleManager, enums.DefaultPermissions(enums.UserRoleManager))

	var captured struct {
		user     string
		role     string
		accessID string
	}
	handler := Auth(authTestJWT, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserIDFromContext(r.Context())
		captured.role = RoleFromContext(r.Context())
		captured.accessID = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.user == "" {
		t.Fatal("expected user id in context")
	}
	if captured.role != string(enums.UserRoleManager) {
		t.Fatalf("expected manager role, got %q", captured.role)
	}
	if captured.accessID != "test-access-id" {
		t.Fatalf("expected access id in context, got %q", captured.accessID)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	handler := Auth(authTestJWT, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, enums.UserRoleSeller, nil)
	checker := sessionCheckerFunc(func(_ context.Context, _ string) (bool, error) {
		return false, nil
	})

	handler := Auth(authTestJWT, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	claims := &pkgAuth.AccessTokenClaims{
		UserID:      uuid.New(),
		Role:        enums.UserRoleSeller,
		Permissions: []enums.Permission{enums.PermissionAccessCalculator},
	}
	claims.ID = "jti"

	handler := RequirePermission(enums.PermissionManageTeam, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/team", nil)
	req = req.WithContext(WithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing permission, got %d", rec.Code)
	}

	admin := &pkgAuth.AccessTokenClaims{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	admin.ID = "jti-admin"
	req = httptest.NewRequest(http.MethodGet, "/team", nil)
	req = req.WithContext(WithClaims(req.Context(), admin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin must pass any permission gate, got %d", rec.Code)
	}
}
