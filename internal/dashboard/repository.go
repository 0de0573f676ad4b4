package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/outletplus/pos-backend/pkg/db/models"
	"github.com/outletplus/pos-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesTotals aggregates sales finalized inside [from, to).
type SalesTotals struct {
	SalesCount   int64
	UnitsSold    int64
	RevenueCents int64
	CostCents    int64
}

func (r *Repository) SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error) {
	var totals SalesTotals

	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Count(&totals.SalesCount).Error
	if err != nil {
		return SalesTotals{}, err
	}

	row := struct {
		Units   int64
		Revenue int64
		Cost    int64
	}{}
	err = r.db.WithContext(ctx).
		Model(&models.SaleItem{}).
		Select("COUNT(*) AS units, COALESCE(SUM(sale_items.price_cents), 0) AS revenue, COALESCE(SUM(sale_items.cost_cents), 0) AS cost").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return SalesTotals{}, err
	}

	totals.UnitsSold = row.Units
	totals.RevenueCents = row.Revenue
	totals.CostCents = row.Cost
	return totals, nil
}

// StockTotals summarizes the available inventory.
type StockTotals struct {
	AvailableUnits int64
	CostCents      int64
	RetailCents    int64
}

func (r *Repository) StockTotals(ctx context.Context) (StockTotals, error) {
	row := struct {
		Units  int64
		Cost   int64
		Retail int64
	}{}
	err := r.db.WithContext(ctx).
		Model(&models.InventoryUnit{}).
		Select("COUNT(*) AS units, COALESCE(SUM(cost_cents), 0) AS cost, COALESCE(SUM(retail_cents), 0) AS retail").
		Where("status = ?", enums.UnitStatusAvailable).
		Scan(&row).Error
	if err != nil {
		return StockTotals{}, err
	}
	return StockTotals{
		AvailableUnits: row.Units,
		CostCents:      row.Cost,
		RetailCents:    row.Retail,
	}, nil
}

// ModelCount pairs a device model with how many of it sold in a window.
type ModelCount struct {
	Model string `json:"model"`
	Count int64  `json:"count"`
}

func (r *Repository) TopModels(ctx context.Context, from, to time.Time, limit int) ([]ModelCount, error) {
	var out []ModelCount
	err := r.db.WithContext(ctx).
		Model(&models.SaleItem{}).
		Select("sale_items.model AS model, COUNT(*) AS count").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ?", from, to).
		Group("sale_items.model").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
