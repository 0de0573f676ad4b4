package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRate holds the card-machine fees for one installment count.
// CostPercent is what the acquirer keeps; PassPercent is what the store
// passes on to the buyer when grossing a charge up.
type PaymentRate struct {
	Installments int             `gorm:"column:installments;primaryKey"`
	CostPercent  decimal.Decimal `gorm:"column:cost_percent;type:numeric(6,3);not null"`
	PassPercent  decimal.Decimal `gorm:"column:pass_percent;type:numeric(6,3);not null"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
