package shopping

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

// Service manages the acquisition wishlist. Status moves freely between
// pending, buying and bought; the list is a planning tool, not a ledger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.ShoppingItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.ShoppingItem, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ShoppingStatus) (*models.ShoppingItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.ShoppingItem, error)
	List(ctx context.Context, status *enums.ShoppingStatus) ([]models.ShoppingItem, error)
}

type repository interface {
	Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error)
	Update(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingItem, error)
	List(ctx context.Context, status *enums.ShoppingStatus) ([]models.ShoppingItem, error)
}

type CreateInput struct {
	Model            string  `json:"model" validate:"required"`
	StorageGB        int     `json:"storageGb" validate:"gt=0"`
	Color            *string `json:"color"`
	TargetPriceCents *int64  `json:"targetPriceCents"`
	Notes            *string `json:"notes"`
}

type UpdateInput struct {
	Model            *string `json:"model"`
	StorageGB        *int    `json:"storageGb"`
	Color            *string `json:"color"`
	TargetPriceCents *int64  `json:"targetPriceCents"`
	Notes            *string `json:"notes"`
}

type ServiceParams struct {
	Repo   repository
	Logger *logger.Logger
}

type service struct {
	repo repository
	logg *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ShoppingItem, error) {
	model := strings.TrimSpace(input.Model)
	if model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device model is required")
	}
	if input.StorageGB <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage must be positive")
	}
	if input.TargetPriceCents != nil && *input.TargetPriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target price cannot be negative")
	}

	item := &models.ShoppingItem{
		Model:            model,
		StorageGB:        input.StorageGB,
		Color:            input.Color,
		TargetPriceCents: input.TargetPriceCents,
		Status:           enums.ShoppingStatusPending,
		Notes:            input.Notes,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shopping item")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.ShoppingItem, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Model != nil {
		model := strings.TrimSpace(*input.Model)
		if model == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "device model cannot be empty")
		}
		item.Model = model
	}
	if input.StorageGB != nil {
		if *input.StorageGB <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage must be positive")
		}
		item.StorageGB = *input.StorageGB
	}
	if input.Color != nil {
		item.Color = input.Color
	}
	if input.TargetPriceCents != nil {
		if *input.TargetPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target price cannot be negative")
		}
		item.TargetPriceCents = input.TargetPriceCents
	}
	if input.Notes != nil {
		item.Notes = input.Notes
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shopping item")
	}
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ShoppingStatus) (*models.ShoppingItem, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shopping status")
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = status

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shopping status")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shopping item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shopping item")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.ShoppingItem, error) {
	return s.load(ctx, id)
}

func (s *service) List(ctx context.Context, status *enums.ShoppingStatus) ([]models.ShoppingItem, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shopping status")
	}
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shopping items")
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.ShoppingItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shopping item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping item")
	}
	return item, nil
}
