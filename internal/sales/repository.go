package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
	"github.com/outletplus/pos-backend/pkg/pagination"
)

// CartRepository persists draft carts.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository builds a cart repository over the provided GORM DB.
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// Create inserts an open cart for the user.
func (r *CartRepository) Create(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	cart := &models.CartRecord{
		UserID: userID,
		Status: enums.CartStatusOpen,
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// Find loads a cart with its lines and payments.
func (r *CartRepository) Find(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payments").
		First(&cart, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SetCustomer attaches (or clears) the cart's customer.
func (r *CartRepository) SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("customer_id", customerID).Error
}

// AddLine inserts a line.
func (r *CartRepository) AddLine(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// RemoveLine deletes a line from the cart.
func (r *CartRepository) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddPayment inserts a tendered payment.
func (r *CartRepository) AddPayment(ctx context.Context, payment *models.CartPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// RemovePayment deletes a payment from the cart.
func (r *CartRepository) RemovePayment(ctx context.Context, cartID, paymentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", paymentID, cartID).
		Delete(&models.CartPayment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkFinalized flips the cart status once its sale is committed.
func (r *CartRepository) MarkFinalized(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("status", enums.CartStatusFinalized).Error
}

// DeleteOpenCartsBefore purges open carts untouched since the cutoff.
func (r *CartRepository) DeleteOpenCartsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.CartStatusOpen, cutoff).
		Delete(&models.CartRecord{})
	return result.RowsAffected, result.Error
}

// SaleRepository persists finalized sales.
type SaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository builds a sale repository over the provided GORM DB.
func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *SaleRepository) WithTx(tx *gorm.DB) *SaleRepository {
	return &SaleRepository{db: tx}
}

// Create inserts the sale with its items and payments.
func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// Find loads a sale with items, payments, and customer.
func (r *SaleRepository) Find(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns sales within the window, newest first. A non-nil cursor
// resumes below the given (sold_at, id) position; limit > 0 caps rows.
func (r *SaleRepository) List(ctx context.Context, from, to time.Time, cursor *pagination.Cursor, limit int) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).Preload("Items").Preload("Customer")
	if !from.IsZero() {
		query = query.Where("sold_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("sold_at < ?", to)
	}
	if cursor != nil {
		query = query.Where("sold_at < ? OR (sold_at = ? AND id < ?)",
			cursor.Timestamp, cursor.Timestamp, cursor.ID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var out []models.Sale
	if err := query.Order("sold_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerHasSales reports whether any sale references the customer.
func (r *SaleRepository) CustomerHasSales(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count > 0, err
}

// IsNotFound reports whether err is the missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
