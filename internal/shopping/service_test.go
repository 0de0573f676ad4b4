package shopping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubRepo struct {
	items map[uuid.UUID]*models.ShoppingItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[uuid.UUID]*models.ShoppingItem)}
}

func (s *stubRepo) Create(_ context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	item.ID = uuid.New()
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) Update(_ context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ShoppingItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubRepo) List(_ context.Context, status *enums.ShoppingStatus) ([]models.ShoppingItem, error) {
	out := make([]models.ShoppingItem, 0, len(s.items))
	for _, item := range s.items {
		if status != nil && item.Status != *status {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "shopping-test"}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestCreateStartsPending(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.Create(context.Background(), CreateInput{Model: "iPhone 13", StorageGB: 128})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Status != enums.ShoppingStatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Model: " ", StorageGB: 64}); pkgerrors.As(err) == nil {
		t.Fatal("expected error for blank model")
	}
	if _, err := svc.Create(ctx, CreateInput{Model: "iPhone 13", StorageGB: 0}); pkgerrors.As(err) == nil {
		t.Fatal("expected error for zero storage")
	}
	negative := int64(-100)
	if _, err := svc.Create(ctx, CreateInput{Model: "iPhone 13", StorageGB: 64, TargetPriceCents: &negative}); pkgerrors.As(err) == nil {
		t.Fatal("expected error for negative target price")
	}
}

func TestSetStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, _ := svc.Create(ctx, CreateInput{Model: "iPhone 13", StorageGB: 128})
	updated, err := svc.SetStatus(ctx, item.ID, enums.ShoppingStatusBought)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != enums.ShoppingStatusBought {
		t.Fatalf("expected bought, got %s", updated.Status)
	}

	_, err = svc.SetStatus(ctx, item.ID, enums.ShoppingStatus("lost"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, CreateInput{Model: "iPhone 12", StorageGB: 64})
	svc.Create(ctx, CreateInput{Model: "iPhone 14", StorageGB: 256})
	svc.SetStatus(ctx, a.ID, enums.ShoppingStatusBuying)

	buying := enums.ShoppingStatusBuying
	out, err := svc.List(ctx, &buying)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].Model != "iPhone 12" {
		t.Fatalf("expected only the buying item, got %+v", out)
	}
}
