package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
)

// ListFilter narrows unit listings.
type ListFilter struct {
	Status enums.UnitStatus
	Model  string
	Search string
}

// Repository persists inventory units.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a unit.
func (r *Repository) Create(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error) {
	if err := r.db.WithContext(ctx).Create(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

// Update saves mutable unit fields.
func (r *Repository) Update(ctx context.Context, unit *models.InventoryUnit) (*models.InventoryUnit, error) {
	if err := r.db.WithContext(ctx).Save(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

// Delete removes a unit by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InventoryUnit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads a unit with its supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryUnit, error) {
	var unit models.InventoryUnit
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&unit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// FindByIMEI loads a unit by its IMEI.
func (r *Repository) FindByIMEI(ctx context.Context, imei string) (*models.InventoryUnit, error) {
	var unit models.InventoryUnit
	if err := r.db.WithContext(ctx).First(&unit, "imei = ?", imei).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

// List returns units matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.InventoryUnit, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryUnit{}).Preload("Supplier")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Model != "" {
		query = query.Where("model = ?", filter.Model)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(model) LIKE ? OR imei LIKE ?", like, like)
	}

	var units []models.InventoryUnit
	if err := query.Order("created_at DESC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// ListAll returns every unit ordered by model for printable reports.
func (r *Repository) ListAll(ctx context.Context) ([]models.InventoryUnit, error) {
	var units []models.InventoryUnit
	err := r.db.WithContext(ctx).
		Order("model ASC, storage_gb ASC").
		Find(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

// IMEIExists reports whether another unit already carries the IMEI.
func (r *Repository) IMEIExists(ctx context.Context, imei string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryUnit{}).Where("imei = ?", imei)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsNotFound reports whether err is the missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
