package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/outletplus/pos-backend/internal/pricing"
	"github.com/outletplus/pos-backend/pkg/config"
	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

// Service exposes store-wide configuration and per-user calculator state.
// Missing rows fall back to configured defaults so a fresh database is
// immediately usable.
type Service interface {
	GetStore(ctx context.Context) (*models.StoreSettings, error)
	UpdateStore(ctx context.Context, input StoreInput) (*models.StoreSettings, error)
	GetCalculator(ctx context.Context, userID uuid.UUID) (pricing.Settings, error)
	SaveCalculator(ctx context.Context, userID uuid.UUID, input pricing.Settings) error

	// WarrantyDays, RoundingIncrement and StoreInfo read the live store
	// settings for callers that only need one knob.
	WarrantyDays(ctx context.Context) int
	RoundingIncrement(ctx context.Context) int64
	StoreInfo(ctx context.Context) (name, document string)
}

type repository interface {
	GetStore(ctx context.Context) (*models.StoreSettings, error)
	SaveStore(ctx context.Context, settings *models.StoreSettings) (*models.StoreSettings, error)
	GetCalculator(ctx context.Context, userID uuid.UUID) (*models.CalculatorSettings, error)
	SaveCalculator(ctx context.Context, settings *models.CalculatorSettings) (*models.CalculatorSettings, error)
}

// StoreInput applies partial edits to the store settings row.
type StoreInput struct {
	StoreName         *string `json:"storeName"`
	StoreDocument     *string `json:"storeDocument"`
	WarrantyDays      *int    `json:"warrantyDays"`
	RoundingIncrement *int64  `json:"roundingIncrement"`
}

type ServiceParams struct {
	Repo    repository
	Sales   config.SalesConfig
	Pricing config.PricingConfig
	Logger  *logger.Logger
}

type service struct {
	repo             repository
	defaultWarranty  int
	defaultIncrement int64
	logg             *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	defaultWarranty := params.Sales.WarrantyDays
	if defaultWarranty <= 0 {
		defaultWarranty = 30
	}
	defaultIncrement := params.Pricing.RoundingIncrement
	if defaultIncrement <= 0 {
		defaultIncrement = 5
	}

	return &service{
		repo:             params.Repo,
		defaultWarranty:  defaultWarranty,
		defaultIncrement: defaultIncrement,
		logg:             params.Logger,
	}, nil
}

func (s *service) defaults() *models.StoreSettings {
	return &models.StoreSettings{
		ID:                storeSettingsID,
		WarrantyDays:      s.defaultWarranty,
		RoundingIncrement: s.defaultIncrement,
	}
}

func (s *service) GetStore(ctx context.Context) (*models.StoreSettings, error) {
	settings, err := s.repo.GetStore(ctx)
	if err != nil {
		if IsNotFound(err) {
			return s.defaults(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store settings")
	}
	return settings, nil
}

func validateStoreInput(input StoreInput) error {
	var err error
	if input.StoreName != nil && len(strings.TrimSpace(*input.StoreName)) > 120 {
		err = multierr.Append(err, fmt.Errorf("store name must be at most 120 characters"))
	}
	if input.WarrantyDays != nil && *input.WarrantyDays < 0 {
		err = multierr.Append(err, fmt.Errorf("warranty days cannot be negative"))
	}
	if input.RoundingIncrement != nil && *input.RoundingIncrement <= 0 {
		err = multierr.Append(err, fmt.Errorf("rounding increment must be positive"))
	}
	return err
}

func (s *service) UpdateStore(ctx context.Context, input StoreInput) (*models.StoreSettings, error) {
	if err := validateStoreInput(input); err != nil {
		fields := multierr.Errors(err)
		messages := make([]string, 0, len(fields))
		for _, fieldErr := range fields {
			messages = append(messages, fieldErr.Error())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store settings").
			WithDetails(map[string]any{"errors": messages})
	}

	settings, err := s.GetStore(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		settings.StoreName = strings.TrimSpace(*input.StoreName)
	}
	if input.StoreDocument != nil {
		settings.StoreDocument = strings.TrimSpace(*input.StoreDocument)
	}
	if input.WarrantyDays != nil {
		settings.WarrantyDays = *input.WarrantyDays
	}
	if input.RoundingIncrement != nil {
		settings.RoundingIncrement = *input.RoundingIncrement
	}

	saved, err := s.repo.SaveStore(ctx, settings)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save store settings")
	}
	return saved, nil
}

func (s *service) GetCalculator(ctx context.Context, userID uuid.UUID) (pricing.Settings, error) {
	record, err := s.repo.GetCalculator(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			return pricing.Settings{}, nil
		}
		return pricing.Settings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load calculator settings")
	}
	return pricing.Settings{
		UnitPrice:       record.UnitPrice,
		ExchangeRate:    record.ExchangeRate,
		FreightPercent:  record.FreightPercent,
		RetailMarkup:    record.RetailMarkup,
		WholesaleMarkup: record.WholesaleMarkup,
		ManualRetail:    record.ManualRetail,
		ManualWholesale: record.ManualWholesale,
	}, nil
}

// SaveCalculator stores the inputs verbatim. Unparseable values are
// allowed; the pricing engine treats them as zero.
func (s *service) SaveCalculator(ctx context.Context, userID uuid.UUID, input pricing.Settings) error {
	record := &models.CalculatorSettings{
		UserID:          userID,
		UnitPrice:       input.UnitPrice,
		ExchangeRate:    input.ExchangeRate,
		FreightPercent:  input.FreightPercent,
		RetailMarkup:    input.RetailMarkup,
		WholesaleMarkup: input.WholesaleMarkup,
		ManualRetail:    input.ManualRetail,
		ManualWholesale: input.ManualWholesale,
	}
	if _, err := s.repo.SaveCalculator(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save calculator settings")
	}
	return nil
}

func (s *service) WarrantyDays(ctx context.Context) int {
	settings, err := s.GetStore(ctx)
	if err != nil {
		s.logg.Warn(ctx, "store settings unavailable, using default warranty")
		return s.defaultWarranty
	}
	return settings.WarrantyDays
}

func (s *service) RoundingIncrement(ctx context.Context) int64 {
	settings, err := s.GetStore(ctx)
	if err != nil {
		s.logg.Warn(ctx, "store settings unavailable, using default rounding increment")
		return s.defaultIncrement
	}
	return settings.RoundingIncrement
}

func (s *service) StoreInfo(ctx context.Context) (string, string) {
	settings, err := s.GetStore(ctx)
	if err != nil {
		s.logg.Warn(ctx, "store settings unavailable, printing without store header")
		return "", ""
	}
	return settings.StoreName, settings.StoreDocument
}
