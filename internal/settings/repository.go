package settings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/outletplus/pos-backend/pkg/db/models"
)

const storeSettingsID = 1

// Repository persists store-wide and per-user calculator settings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetStore(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", storeSettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Repository) SaveStore(ctx context.Context, settings *models.StoreSettings) (*models.StoreSettings, error) {
	settings.ID = storeSettingsID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *Repository) GetCalculator(ctx context.Context, userID uuid.UUID) (*models.CalculatorSettings, error) {
	var settings models.CalculatorSettings
	if err := r.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Repository) SaveCalculator(ctx context.Context, settings *models.CalculatorSettings) (*models.CalculatorSettings, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
