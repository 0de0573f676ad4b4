package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/outletplus/pos-backend/pkg/auth"
	"github.com/outletplus/pos-backend/pkg/auth/session"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "outletpos",
	ExpirationMinutes: 15,
}

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSession struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSession) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSession) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	newID := "rotated-" + oldAccessID
	return newID, "refresh-" + newID, nil
}

func (s *stubSession) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Seller",
		Role:         enums.UserRoleSeller,
		Permissions:  enums.DefaultPermissions(enums.UserRoleSeller),
		IsActive:     active,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sess *stubSession) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sess,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLoginIssuesTokenPair(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "vendedor@example.com", "s3cret-pass", true)}
	sess := &stubSession{}
	svc := newTestService(t, repo, sess)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Vendedor@Example.com ",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != repo.user.ID {
		t.Fatalf("expected user %s in claims, got %s", repo.user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleSeller {
		t.Fatalf("expected seller role, got %s", claims.Role)
	}
	if !claims.HasPermission(enums.PermissionAccessCalculator) {
		t.Fatal("expected seller default permissions in claims")
	}
	if len(sess.generated) != 1 || sess.generated[0] != claims.ID {
		t.Fatalf("refresh session must be keyed by the token jti, got %v", sess.generated)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "vendedor@example.com", "s3cret-pass", true)}
	svc := newTestService(t, repo, &stubSession{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "vendedor@example.com",
		Password: "wrong",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "vendedor@example.com", "s3cret-pass", false)}
	svc := newTestService(t, repo, &stubSession{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "vendedor@example.com",
		Password: "s3cret-pass",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubSession{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "vendedor@example.com", "s3cret-pass", true)}
	sess := &stubSession{}
	svc := newTestService(t, repo, sess)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: "vendedor@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resp, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != repo.user.ID {
		t.Fatalf("rotated token must keep the user, got %s", claims.UserID)
	}
	if claims.ID == "" || claims.ID == sess.generated[0] {
		t.Fatal("rotated token must carry the new access id")
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "vendedor@example.com", "s3cret-pass", true)}
	sess := &stubSession{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestService(t, repo, sess)
	ctx := context.Background()

	login, _ := svc.Login(ctx, LoginRequest{Email: "vendedor@example.com", Password: "s3cret-pass"})
	_, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "bogus",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sess := &stubSession{}
	svc := newTestService(t, &stubUserRepo{}, sess)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sess.revoked) != 1 || sess.revoked[0] != "access-id" {
		t.Fatalf("expected session revoked, got %v", sess.revoked)
	}
}
