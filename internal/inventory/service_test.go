package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/devicecheck"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubRepo struct {
	units   map[uuid.UUID]*models.InventoryUnit
	imeis   map[string]bool
	created *models.InventoryUnit
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		units: make(map[uuid.UUID]*models.InventoryUnit),
		imeis: make(map[string]bool),
	}
}

func (s *stubRepo) Create(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error) {
	unit.ID = uuid.New()
	s.units[unit.ID] = unit
	s.imeis[unit.IMEI] = true
	s.created = unit
	return unit, nil
}

func (s *stubRepo) Update(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error) {
	s.units[unit.ID] = unit
	return unit, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.units[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.units, id)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	unit, ok := s.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return unit, nil
}

func (s *stubRepo) List(ctx context.Context, filter ListFilter) ([]models.InventoryUnit, error) {
	out := make([]models.InventoryUnit, 0, len(s.units))
	for _, unit := range s.units {
		out = append(out, *unit)
	}
	return out, nil
}

func (s *stubRepo) IMEIExists(ctx context.Context, imei string, excludeID *uuid.UUID) (bool, error) {
	if excludeID != nil {
		for id, unit := range s.units {
			if id != *excludeID && unit.IMEI == imei {
				return true, nil
			}
		}
		return false, nil
	}
	return s.imeis[imei], nil
}

type stubAnalyzer struct {
	analysis *devicecheck.Analysis
	err      error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req devicecheck.AnalyzeRequest) (*devicecheck.Analysis, error) {
	return s.analysis, s.err
}

func newTestService(t *testing.T, repo unitRepository, analyzer deviceAnalyzer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Analyzer: analyzer,
		Logger:   logger.New(logger.Options{ServiceName: "inventory-test"}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validInput() CreateUnitInput {
	return CreateUnitInput{
		Model:       "iPhone 13",
		StorageGB:   128,
		Color:       "Midnight",
		IMEI:        "359876543210987",
		Condition:   enums.UnitConditionUsed,
		CostCents:   275000,
		RetailCents: 385000,

		CostNoFreightCents: 250000,
	}
}

func TestCreateRecordsAnalysis(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubAnalyzer{analysis: &devicecheck.Analysis{
		IdentifiedModel: "iPhone 13 128GB",
		RiskAssessment:  "clean",
	}})

	unit, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if unit.Status != enums.UnitStatusAvailable {
		t.Fatalf("expected available status, got %s", unit.Status)
	}
	if unit.CostNoFreightCents != 250000 {
		t.Fatalf("expected cost without freight persisted, got %d", unit.CostNoFreightCents)
	}
	if unit.DeviceCheckStatus != enums.DeviceCheckStatusCompleted {
		t.Fatalf("expected completed analysis, got %s", unit.DeviceCheckStatus)
	}
	if unit.IdentifiedModel == nil || *unit.IdentifiedModel != "iPhone 13 128GB" {
		t.Fatal("identified model not recorded")
	}
}

func TestCreateAnalysisFailureNeverBlocks(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, &stubAnalyzer{err: errors.New("upstream down")})

	unit, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create should succeed despite analysis failure: %v", err)
	}
	if unit.DeviceCheckStatus != enums.DeviceCheckStatusFailed {
		t.Fatalf("expected analysis_failed, got %s", unit.DeviceCheckStatus)
	}
}

func TestCreateWithoutAnalyzer(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	unit, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if unit.DeviceCheckStatus != enums.DeviceCheckStatusNotRun {
		t.Fatalf("expected not_run, got %s", unit.DeviceCheckStatus)
	}
}

func TestCreateRejectsDuplicateIMEI(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateSoldUnitRejected(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	unit, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	unit.Status = enums.UnitStatusSold

	newModel := "iPhone 13 Pro"
	_, err = svc.Update(context.Background(), unit.ID, UpdateUnitInput{Model: &newModel})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteSoldUnitRejected(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	unit, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	unit.Status = enums.UnitStatusSold

	err = svc.Delete(context.Background(), unit.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestUpdateIMEIConflict(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo, nil)

	first, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second := validInput()
	second.IMEI = "111111111111111"
	unit, err := svc.Create(context.Background(), second)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	imei := first.IMEI
	_, err = svc.Update(context.Background(), unit.ID, UpdateUnitInput{IMEI: &imei})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetMissingUnit(t *testing.T) {
	svc := newTestService(t, newStubRepo(), nil)
	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
