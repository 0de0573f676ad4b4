package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// CartRecord is a server-side draft sale being assembled by a seller.
type CartRecord struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerID *uuid.UUID       `gorm:"column:customer_id;type:uuid"`
	Status     enums.CartStatus `gorm:"column:status;type:text;not null;default:'open'"`
	Lines      []CartLine       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Payments   []CartPayment    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CartLine reserves one inventory unit inside a draft. A unit can appear
// at most once per cart.
type CartLine struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID     uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_unit"`
	UnitID     uuid.UUID `gorm:"column:unit_id;type:uuid;not null;uniqueIndex:idx_cart_unit"`
	PriceCents int64     `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// CartPayment is a tendered payment attached to a draft.
type CartPayment struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID           `gorm:"column:cart_id;type:uuid;not null;index"`
	Method      enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	// Free-text note, e.g. "12x" or a trade-in description.
	Details   *string   `gorm:"column:details"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
