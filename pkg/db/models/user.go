package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// User represents a staff account.
type User struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string             `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string             `gorm:"column:password_hash;not null"`
	Name         string             `gorm:"column:name;not null"`
	Phone        *string            `gorm:"column:phone"`
	Role         enums.UserRole     `gorm:"column:role;type:text;not null"`
	Permissions  []enums.Permission `gorm:"column:permissions;type:text;serializer:json"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time         `gorm:"column:last_login_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPermission reports whether the user's stored set grants the permission.
func (u User) HasPermission(p enums.Permission) bool {
	for _, candidate := range u.Permissions {
		if candidate == p {
			return true
		}
	}
	return false
}
