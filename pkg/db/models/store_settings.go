package models

import "time"

// StoreSettings is the single-row store-wide configuration. ID is always 1.
type StoreSettings struct {
	ID                int       `gorm:"column:id;primaryKey"`
	StoreName         string    `gorm:"column:store_name;not null;default:''"`
	StoreDocument     string    `gorm:"column:store_document;not null;default:''"`
	WarrantyDays      int       `gorm:"column:warranty_days;not null;default:30"`
	RoundingIncrement int64     `gorm:"column:rounding_increment;not null;default:5"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
