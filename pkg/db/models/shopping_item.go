package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// ShoppingItem is a device the store wants to acquire.
type ShoppingItem struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Model            string               `gorm:"column:model;not null"`
	StorageGB        int                  `gorm:"column:storage_gb;not null"`
	Color            *string              `gorm:"column:color"`
	TargetPriceCents *int64               `gorm:"column:target_price_cents"`
	Status           enums.ShoppingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes            *string              `gorm:"column:notes"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
