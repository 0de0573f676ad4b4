package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// InventoryUnit is a single physical device tracked by IMEI. Money fields
// are centavos.
type InventoryUnit struct {
	ID                 uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Model              string              `gorm:"column:model;not null"`
	StorageGB          int                 `gorm:"column:storage_gb;not null"`
	Color              string              `gorm:"column:color;not null"`
	IMEI               string              `gorm:"column:imei;not null;uniqueIndex"`
	BatteryHealth      *int                `gorm:"column:battery_health"`
	Condition          enums.UnitCondition `gorm:"column:condition;type:text;not null"`
	Status             enums.UnitStatus    `gorm:"column:status;type:text;not null;default:'available'"`
	CostCents          int64               `gorm:"column:cost_cents;not null"`
	CostNoFreightCents int64               `gorm:"column:cost_no_freight_cents;not null;default:0"`
	RetailCents        int64               `gorm:"column:retail_cents;not null"`
	WholesaleCents     int64               `gorm:"column:wholesale_cents;not null;default:0"`
	SupplierID         *uuid.UUID          `gorm:"column:supplier_id;type:uuid"`
	Supplier           *Supplier           `gorm:"foreignKey:SupplierID"`
	Notes              *string             `gorm:"column:notes"`

	SoldAt       *time.Time `gorm:"column:sold_at"`
	SoldCents    *int64     `gorm:"column:sold_cents"`
	CustomerID   *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	WarrantyEnds *time.Time `gorm:"column:warranty_ends"`

	DeviceCheckStatus enums.DeviceCheckStatus `gorm:"column:device_check_status;type:text;not null;default:'not_run'"`
	IdentifiedModel   *string                 `gorm:"column:identified_model"`
	RiskAssessment    *string                 `gorm:"column:risk_assessment"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
