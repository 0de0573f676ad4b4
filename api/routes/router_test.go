package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/internal/auth"
	"github.com/outletplus/pos-backend/internal/customers"
	"github.com/outletplus/pos-backend/internal/dashboard"
	pkgAuth "github.com/outletplus/pos-backend/pkg/auth"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateInput) (*models.Customer, error) {
	return &models.Customer{Name: input.Name}, nil
}

func (stubCustomersService) Update(ctx context.Context, id uuid.UUID, input customers.UpdateInput) (*models.Customer, error) {
	return &models.Customer{}, nil
}

func (stubCustomersService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubCustomersService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return &models.Customer{}, nil
}

func (stubCustomersService) List(ctx context.Context, search string) ([]models.Customer, error) {
	return nil, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Summary(ctx context.Context, period dashboard.Period) (*dashboard.Summary, error) {
	return &dashboard.Summary{Period: period}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "outletpos",
			ExpirationMinutes: 15,
		},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(Deps{
		Config:           testConfig(),
		Logger:           logg,
		Sessions:         stubSessionChecker{},
		DBPinger:         stubPinger{},
		RedisPinger:      stubPinger{},
		AuthService:      stubAuthService{},
		CustomersService: stubCustomersService{},
		DashboardService: stubDashboardService{},
	})
}

func mintToken(t *testing.T, role enums.UserRole, perms []enums.Permission) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:      uuid.New(),
		Role:        role,
		Permissions: perms,
		JTI:         "router-test-session",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthReady(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"database":"up"`) {
		t.Fatalf("body missing database check: %s", rec.Body.String())
	}
}

func TestLoginRouteIsPublic(t *testing.T) {
	router := testRouter(t)

	body := strings.NewReader(`{"email":"ana@loja.com","password":"segredo123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/customers", "/api/sales", "/api/dashboard/summary"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s status = %d, want %d", path, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestAuthorizedRequestReachesHandler(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleSeller, enums.DefaultPermissions(enums.UserRoleSeller)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestDashboardRequiresPermission(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleSeller, enums.DefaultPermissions(enums.UserRoleSeller)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestDashboardAllowsManager(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleManager, enums.DefaultPermissions(enums.UserRoleManager)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestStoreSettingsUpdateRequiresAdmin(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/settings/store", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleManager, enums.DefaultPermissions(enums.UserRoleManager)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
