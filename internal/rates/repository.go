package rates

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/outletplus/pos-backend/pkg/db/models"
)

const defaultRateRows = 18

// Repository persists the card-machine rate table.
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

// List returns all rate rows ordered by installment count.
func (r *Repository) List(ctx context.Context) ([]models.PaymentRate, error) {
	var rows []models.PaymentRate
	if err := r.db.WithContext(ctx).Order("installments ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Replace swaps the entire rate table for the provided rows.
func (r *Repository) Replace(ctx context.Context, rows []models.PaymentRate) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PaymentRate{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// DefaultTable returns the factory rate table: 18 rows where row n costs
// n x 1.5% to the store and passes n x 1.8% on to the buyer.
func DefaultTable() []models.PaymentRate {
	rows := make([]models.PaymentRate, 0, defaultRateRows)
	for n := 1; n <= defaultRateRows; n++ {
		rows = append(rows, models.PaymentRate{
			Installments: n,
			CostPercent:  decimal.NewFromFloat(1.5).Mul(decimal.NewFromInt(int64(n))),
			PassPercent:  decimal.NewFromFloat(1.8).Mul(decimal.NewFromInt(int64(n))),
		})
	}
	return rows
}
