package models

import (
	"time"

	"github.com/google/uuid"
)

// CalculatorSettings persists the last pricing inputs a user typed so the
// calculator reopens where they left off. Values are kept verbatim as
// strings; the pricing engine owns their interpretation.
type CalculatorSettings struct {
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	UnitPrice       string    `gorm:"column:unit_price;not null;default:''"`
	ExchangeRate    string    `gorm:"column:exchange_rate;not null;default:''"`
	FreightPercent  string    `gorm:"column:freight_percent;not null;default:''"`
	RetailMarkup    string    `gorm:"column:retail_markup;not null;default:''"`
	WholesaleMarkup string    `gorm:"column:wholesale_markup;not null;default:''"`
	ManualRetail    string    `gorm:"column:manual_retail;not null;default:''"`
	ManualWholesale string    `gorm:"column:manual_wholesale;not null;default:''"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
