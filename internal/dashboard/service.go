package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
	"github.com/outletplus/pos-backend/pkg/money"
)

// Period names a dashboard reporting window anchored at now.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

const (
	topModelsLimit = 5
	cacheTTL       = 60 * time.Second
)

// Summary is the dashboard payload for one period.
type Summary struct {
	Period             Period       `json:"period"`
	From               time.Time    `json:"from"`
	To                 time.Time    `json:"to"`
	SalesCount         int64        `json:"sales_count"`
	UnitsSold          int64        `json:"units_sold"`
	RevenueCents       int64        `json:"revenue_cents"`
	CostCents          int64        `json:"cost_cents"`
	ProfitCents        int64        `json:"profit_cents"`
	AverageTicketCents int64        `json:"average_ticket_cents"`
	RevenueDisplay     string       `json:"revenue_display"`
	ProfitDisplay      string       `json:"profit_display"`
	AvailableUnits     int64        `json:"available_units"`
	StockCostCents     int64        `json:"stock_cost_cents"`
	StockRetailCents   int64        `json:"stock_retail_cents"`
	TopModels          []ModelCount `json:"top_models"`
}

// Service computes dashboard summaries, serving short-lived cached
// copies when available.
type Service interface {
	Summary(ctx context.Context, period Period) (*Summary, error)
}

type repository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	StockTotals(ctx context.Context) (StockTotals, error)
	TopModels(ctx context.Context, from, to time.Time, limit int) ([]ModelCount, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type ServiceParams struct {
	Repo   repository
	Cache  cache
	Logger *logger.Logger

	// CacheMiss tells cache read errors apart from real failures; wire
	// it to redis.IsNil. Required when Cache is set.
	CacheMiss func(error) bool
}

type service struct {
	repo  repository
	cache cache
	logg  *logger.Logger
	now   func() time.Time

	isCacheMiss func(error) bool
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Cache != nil && params.CacheMiss == nil {
		return nil, fmt.Errorf("cache miss predicate required when cache is set")
	}
	return &service{
		repo:        params.Repo,
		cache:       params.Cache,
		logg:        params.Logger,
		now:         time.Now,
		isCacheMiss: params.CacheMiss,
	}, nil
}

// windowFor anchors the period at local midnight so "day" means today,
// not the trailing 24 hours.
func windowFor(period Period, now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := midnight.AddDate(0, 0, 1)
	switch period {
	case PeriodWeek:
		return end.AddDate(0, 0, -7), end
	case PeriodMonth:
		return end.AddDate(0, -1, 0), end
	default:
		return midnight, end
	}
}

func (s *service) Summary(ctx context.Context, period Period) (*Summary, error) {
	if !period.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid dashboard period")
	}

	if s.cache != nil {
		key := s.cache.CacheKey("dashboard", string(period))
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached Summary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !s.isCacheMiss(err) {
			s.logg.Warn(ctx, "dashboard cache read failed")
		}
	}

	summary, err := s.compute(ctx, period)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			key := s.cache.CacheKey("dashboard", string(period))
			if err := s.cache.Set(ctx, key, payload, cacheTTL); err != nil {
				s.logg.Warn(ctx, "dashboard cache write failed")
			}
		}
	}
	return summary, nil
}

func (s *service) compute(ctx context.Context, period Period) (*Summary, error) {
	from, to := windowFor(period, s.now())

	sales, err := s.repo.SalesTotals(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate sales")
	}
	stock, err := s.repo.StockTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate stock")
	}
	topModels, err := s.repo.TopModels(ctx, from, to, topModelsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank models")
	}

	profit := sales.RevenueCents - sales.CostCents
	var averageTicket int64
	if sales.SalesCount > 0 {
		averageTicket = sales.RevenueCents / sales.SalesCount
	}

	return &Summary{
		Period:             period,
		From:               from,
		To:                 to,
		SalesCount:         sales.SalesCount,
		UnitsSold:          sales.UnitsSold,
		RevenueCents:       sales.RevenueCents,
		CostCents:          sales.CostCents,
		ProfitCents:        profit,
		AverageTicketCents: averageTicket,
		RevenueDisplay:     money.FormatBRL(money.Cents(sales.RevenueCents)),
		ProfitDisplay:      money.FormatBRL(money.Cents(profit)),
		AvailableUnits:     stock.AvailableUnits,
		StockCostCents:     stock.CostCents,
		StockRetailCents:   stock.RetailCents,
		TopModels:          topModels,
	}, nil
}
