package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubRepo) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *stubRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Password: config.PasswordConfig{},
		Logger:   logger.New(logger.Options{ServiceName: "users-test"}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestCreateAppliesRoleDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateInput{
		Email:    "Vendedor@Example.com",
		Password: "s3cret-pass",
		Name:     "Pedro Alves",
		Role:     enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "vendedor@example.com" {
		t.Fatalf("email must be normalized, got %q", created.Email)
	}

	want := enums.DefaultPermissions(enums.UserRoleSeller)
	if len(created.Permissions) != len(want) {
		t.Fatalf("expected %d default permissions, got %d", len(want), len(created.Permissions))
	}
	for i, p := range want {
		if created.Permissions[i] != p {
			t.Fatalf("expected permission %s at %d, got %s", p, i, created.Permissions[i])
		}
	}
}

func TestCreateHonorsExplicitPermissions(t *testing.T) {
	svc, _ := newTestService(t)

	perms := []enums.Permission{enums.PermissionViewDashboard}
	created, err := svc.Create(context.Background(), CreateInput{
		Email:       "gerente@example.com",
		Password:    "s3cret-pass",
		Name:        "Lucia Prado",
		Role:        enums.UserRoleManager,
		Permissions: perms,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created.Permissions) != 1 || created.Permissions[0] != enums.PermissionViewDashboard {
		t.Fatalf("expected explicit override, got %v", created.Permissions)
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Email:    "a@example.com",
		Password: "short",
		Name:     "A",
		Role:     enums.UserRoleSeller,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownPermission(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Email:       "b@example.com",
		Password:    "s3cret-pass",
		Name:        "B",
		Role:        enums.UserRoleSeller,
		Permissions: []enums.Permission{"rule_the_world"},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRoleChangeResetsPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{
		Email:    "c@example.com",
		Password: "s3cret-pass",
		Name:     "C",
		Role:     enums.UserRoleSeller,
	})

	manager := enums.UserRoleManager
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Role: &manager})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := enums.DefaultPermissions(enums.UserRoleManager)
	if len(updated.Permissions) != len(want) {
		t.Fatalf("expected manager defaults after role change, got %v", updated.Permissions)
	}
}

func TestDeactivateKeepsAccount(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{
		Email:    "d@example.com",
		Password: "s3cret-pass",
		Name:     "D",
		Role:     enums.UserRoleSeller,
	})
	if err := svc.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	stored := repo.users[created.ID]
	if stored == nil {
		t.Fatal("user must not be deleted")
	}
	if stored.IsActive {
		t.Fatal("user must be inactive")
	}
}
