package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// Sale is an immutable record of a finalized cart. Item rows carry value
// copies of the unit attributes at sale time; later inventory edits never
// reach back into a sale.
type Sale struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID     `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer   *Customer     `gorm:"foreignKey:CustomerID"`
	SellerID   uuid.UUID     `gorm:"column:seller_id;type:uuid;not null"`
	TotalCents int64         `gorm:"column:total_cents;not null"`
	PaidCents  int64         `gorm:"column:paid_cents;not null"`
	SoldAt     time.Time     `gorm:"column:sold_at;not null"`
	Items      []SaleItem    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Payments   []SalePayment `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// SaleItem snapshots one sold unit.
type SaleItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID       uuid.UUID  `gorm:"column:sale_id;type:uuid;not null;index"`
	UnitID       uuid.UUID  `gorm:"column:unit_id;type:uuid;not null"`
	Model        string     `gorm:"column:model;not null"`
	StorageGB    int        `gorm:"column:storage_gb;not null"`
	Color        string     `gorm:"column:color;not null"`
	IMEI         string     `gorm:"column:imei;not null"`
	PriceCents   int64      `gorm:"column:price_cents;not null"`
	CostCents    int64      `gorm:"column:cost_cents;not null"`
	WarrantyEnds *time.Time `gorm:"column:warranty_ends"`
}

// SalePayment records one settled payment on a sale.
type SalePayment struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID      uuid.UUID           `gorm:"column:sale_id;type:uuid;not null;index"`
	Method      enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	Details     *string             `gorm:"column:details"`
}
