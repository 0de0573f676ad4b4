package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/devicecheck"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

// Service exposes inventory operations.
type Service interface {
	Create(ctx context.Context, input CreateUnitInput) (*models.InventoryUnit, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUnitInput) (*models.InventoryUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	List(ctx context.Context, filter ListFilter) ([]models.InventoryUnit, error)
}

type unitRepository interface {
	Create(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error)
	Update(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error)
	List(ctx context.Context, filter ListFilter) ([]models.InventoryUnit, error)
	IMEIExists(ctx context.Context, imei string, excludeID *uuid.UUID) (bool, error)
}

type deviceAnalyzer interface {
	Analyze(ctx context.Context, req devicecheck.AnalyzeRequest) (*devicecheck.Analysis, error)
}

type service struct {
	repo     unitRepository
	analyzer deviceAnalyzer
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies for the inventory service.
// Analyzer is optional; without one, units enter with analysis not run.
type ServiceParams struct {
	Repo     unitRepository
	Analyzer deviceAnalyzer
	Logger   *logger.Logger
}

// NewService builds an inventory service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("unit repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		analyzer: params.Analyzer,
		logg:     params.Logger,
	}, nil
}

// CreateUnitInput captures a new device entering stock. Money is centavos.
type CreateUnitInput struct {
	Model              string              `json:"model"`
	StorageGB          int                 `json:"storageGb"`
	Color              string              `json:"color"`
	IMEI               string              `json:"imei"`
	BatteryHealth      *int                `json:"batteryHealth"`
	Condition          enums.UnitCondition `json:"condition"`
	CostCents          int64               `json:"costCents"`
	CostNoFreightCents int64               `json:"costNoFreightCents"`
	RetailCents        int64               `json:"retailCents"`
	WholesaleCents     int64               `json:"wholesaleCents"`
	SupplierID         *uuid.UUID          `json:"supplierId"`
	Notes              *string             `json:"notes"`
}

// UpdateUnitInput carries the mutable fields; nil means keep.
type UpdateUnitInput struct {
	Model              *string              `json:"model"`
	StorageGB          *int                 `json:"storageGb"`
	Color              *string              `json:"color"`
	IMEI               *string              `json:"imei"`
	BatteryHealth      *int                 `json:"batteryHealth"`
	Condition          *enums.UnitCondition `json:"condition"`
	CostCents          *int64               `json:"costCents"`
	CostNoFreightCents *int64               `json:"costNoFreightCents"`
	RetailCents        *int64               `json:"retailCents"`
	WholesaleCents     *int64               `json:"wholesaleCents"`
	SupplierID         *uuid.UUID           `json:"supplierId"`
	Notes              *string              `json:"notes"`
}

func (s *service) Create(ctx context.Context, input CreateUnitInput) (*models.InventoryUnit, error) {
	imei := strings.TrimSpace(input.IMEI)
	if imei == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imei is required")
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if input.CostCents < 0 || input.CostNoFreightCents < 0 || input.RetailCents < 0 || input.WholesaleCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}

	taken, err := s.repo.IMEIExists(ctx, imei, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check imei uniqueness")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a unit with this IMEI already exists")
	}

	unit := &models.InventoryUnit{
		Model:              strings.TrimSpace(input.Model),
		StorageGB:          input.StorageGB,
		Color:              strings.TrimSpace(input.Color),
		IMEI:               imei,
		BatteryHealth:      input.BatteryHealth,
		Condition:          input.Condition,
		Status:             enums.UnitStatusAvailable,
		CostCents:          input.CostCents,
		CostNoFreightCents: input.CostNoFreightCents,
		RetailCents:        input.RetailCents,
		WholesaleCents:     input.WholesaleCents,
		SupplierID:         input.SupplierID,
		Notes:              input.Notes,
		DeviceCheckStatus:  enums.DeviceCheckStatusNotRun,
	}

	s.analyze(ctx, unit)

	created, err := s.repo.Create(ctx, unit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inventory unit")
	}
	return created, nil
}

// analyze runs the advisory device check. Failures are recorded on the
// unit and never block entry.
func (s *service) analyze(ctx context.Context, unit *models.InventoryUnit) {
	if s.analyzer == nil {
		return
	}
	notes := ""
	if unit.Notes != nil {
		notes = *unit.Notes
	}
	analysis, err := s.analyzer.Analyze(ctx, devicecheck.AnalyzeRequest{
		Model:     unit.Model,
		StorageGB: unit.StorageGB,
		Color:     unit.Color,
		IMEI:      unit.IMEI,
		Notes:     notes,
	})
	if err != nil {
		unit.DeviceCheckStatus = enums.DeviceCheckStatusFailed
		s.logg.Warn(s.logg.WithField(ctx, "imei", unit.IMEI), "device analysis failed")
		return
	}
	unit.DeviceCheckStatus = enums.DeviceCheckStatusCompleted
	if analysis.IdentifiedModel != "" {
		identified := analysis.IdentifiedModel
		unit.IdentifiedModel = &identified
	}
	if analysis.RiskAssessment != "" {
		risk := analysis.RiskAssessment
		unit.RiskAssessment = &risk
	}
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUnitInput) (*models.InventoryUnit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory unit")
	}
	if unit.Status == enums.UnitStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "sold units cannot be edited")
	}

	if input.IMEI != nil {
		imei := strings.TrimSpace(*input.IMEI)
		if imei == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "imei is required")
		}
		if imei != unit.IMEI {
			taken, err := s.repo.IMEIExists(ctx, imei, &id)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check imei uniqueness")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "a unit with this IMEI already exists")
			}
		}
		unit.IMEI = imei
	}
	if input.Model != nil {
		unit.Model = strings.TrimSpace(*input.Model)
	}
	if input.StorageGB != nil {
		unit.StorageGB = *input.StorageGB
	}
	if input.Color != nil {
		unit.Color = strings.TrimSpace(*input.Color)
	}
	if input.BatteryHealth != nil {
		unit.BatteryHealth = input.BatteryHealth
	}
	if input.Condition != nil {
		if !input.Condition.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
		}
		unit.Condition = *input.Condition
	}
	if input.CostCents != nil {
		if *input.CostCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
		}
		unit.CostCents = *input.CostCents
	}
	if input.CostNoFreightCents != nil {
		if *input.CostNoFreightCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
		}
		unit.CostNoFreightCents = *input.CostNoFreightCents
	}
	if input.RetailCents != nil {
		if *input.RetailCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "retail price must not be negative")
		}
		unit.RetailCents = *input.RetailCents
	}
	if input.WholesaleCents != nil {
		if *input.WholesaleCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "wholesale price must not be negative")
		}
		unit.WholesaleCents = *input.WholesaleCents
	}
	if input.SupplierID != nil {
		unit.SupplierID = input.SupplierID
	}
	if input.Notes != nil {
		unit.Notes = input.Notes
	}

	updated, err := s.repo.Update(ctx, unit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inventory unit")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory unit not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory unit")
	}
	if unit.Status == enums.UnitStatusSold {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "sold units cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inventory unit")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory unit not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load inventory unit")
	}
	return unit, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.InventoryUnit, error) {
	units, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inventory units")
	}
	return units, nil
}
