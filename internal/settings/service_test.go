package settings

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/internal/pricing"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubRepo struct {
	store      *models.StoreSettings
	calculator map[uuid.UUID]*models.CalculatorSettings
}

func newStubRepo() *stubRepo {
	return &stubRepo{calculator: make(map[uuid.UUID]*models.CalculatorSettings)}
}

func (s *stubRepo) GetStore(_ context.Context) (*models.StoreSettings, error) {
	if s.store == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

func (s *stubRepo) SaveStore(_ context.Context, settings *models.StoreSettings) (*models.StoreSettings, error) {
	s.store = settings
	return settings, nil
}

func (s *stubRepo) GetCalculator(_ context.Context, userID uuid.UUID) (*models.CalculatorSettings, error) {
	record, ok := s.calculator[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *stubRepo) SaveCalculator(_ context.Context, settings *models.CalculatorSettings) (*models.CalculatorSettings, error) {
	s.calculator[settings.UserID] = settings
	return settings, nil
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Sales:   config.SalesConfig{WarrantyDays: 30},
		Pricing: config.PricingConfig{RoundingIncrement: 5},
		Logger:  logger.New(logger.Options{ServiceName: "settings-test"}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestGetStoreFallsBackToDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	settings, err := svc.GetStore(context.Background())
	if err != nil {
		t.Fatalf("GetStore: %v", err)
	}
	if settings.WarrantyDays != 30 {
		t.Fatalf("expected default warranty 30, got %d", settings.WarrantyDays)
	}
	if settings.RoundingIncrement != 5 {
		t.Fatalf("expected default increment 5, got %d", settings.RoundingIncrement)
	}
}

func TestUpdateStorePersistsKnobs(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	name := "Outlet Plus Celulares"
	warranty := 90
	updated, err := svc.UpdateStore(ctx, StoreInput{StoreName: &name, WarrantyDays: &warranty})
	if err != nil {
		t.Fatalf("UpdateStore: %v", err)
	}
	if updated.StoreName != name || updated.WarrantyDays != 90 {
		t.Fatalf("unexpected settings: %+v", updated)
	}
	if repo.store == nil {
		t.Fatal("settings must be persisted")
	}
	if svc.WarrantyDays(ctx) != 90 {
		t.Fatalf("WarrantyDays must read the stored value, got %d", svc.WarrantyDays(ctx))
	}
}

func TestUpdateStoreCollectsAllValidationErrors(t *testing.T) {
	svc, _ := newTestService(t)

	longName := strings.Repeat("x", 200)
	warranty := -1
	increment := int64(0)
	_, err := svc.UpdateStore(context.Background(), StoreInput{
		StoreName:         &longName,
		WarrantyDays:      &warranty,
		RoundingIncrement: &increment,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"store name", "warranty", "rounding"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got %q", want, msg)
		}
	}

	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected field messages in details, got %T", typed.Details())
	}
	messages, ok := details["errors"].([]string)
	if !ok || len(messages) != 3 {
		t.Fatalf("expected 3 field messages in details, got %v", details["errors"])
	}
}

func TestCalculatorRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	got, err := svc.GetCalculator(ctx, userID)
	if err != nil {
		t.Fatalf("GetCalculator empty: %v", err)
	}
	if got != (pricing.Settings{}) {
		t.Fatalf("expected empty settings for new user, got %+v", got)
	}

	input := pricing.Settings{
		UnitPrice:      "499,90",
		ExchangeRate:   "5,10",
		FreightPercent: "10",
		RetailMarkup:   "abc",
	}
	if err := svc.SaveCalculator(ctx, userID, input); err != nil {
		t.Fatalf("SaveCalculator: %v", err)
	}

	got, err = svc.GetCalculator(ctx, userID)
	if err != nil {
		t.Fatalf("GetCalculator: %v", err)
	}
	if got != input {
		t.Fatalf("expected %+v back, got %+v", input, got)
	}
}
