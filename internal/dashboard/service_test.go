package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/logger"
)

type stubRepo struct {
	sales     SalesTotals
	stock     StockTotals
	topModels []ModelCount
	calls     int
}

func (s *stubRepo) SalesTotals(_ context.Context, _, _ time.Time) (SalesTotals, error) {
	s.calls++
	return s.sales, nil
}

func (s *stubRepo) StockTotals(_ context.Context) (StockTotals, error) {
	return s.stock, nil
}

func (s *stubRepo) TopModels(_ context.Context, _, _ time.Time, _ int) ([]ModelCount, error) {
	return s.topModels, nil
}

var errCacheMiss = errors.New("cache miss")

type stubCache struct {
	entries map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]string)}
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	value, ok := s.entries[key]
	if !ok {
		return "", errCacheMiss
	}
	return value, nil
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		s.entries[key] = string(v)
	case string:
		s.entries[key] = v
	}
	return nil
}

func (s *stubCache) CacheKey(parts ...string) string {
	key := "cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func newTestService(t *testing.T, repo *stubRepo, cache *stubCache) Service {
	t.Helper()
	params := ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "dashboard-test"}),
	}
	if cache != nil {
		params.Cache = cache
		params.CacheMiss = func(err error) bool { return errors.Is(err, errCacheMiss) }
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSummaryComputesDerivedFigures(t *testing.T) {
	repo := &stubRepo{
		sales: SalesTotals{SalesCount: 4, UnitsSold: 5, RevenueCents: 1000000, CostCents: 700000},
		stock: StockTotals{AvailableUnits: 12, CostCents: 2400000, RetailCents: 3600000},
		topModels: []ModelCount{
			{Model: "iPhone 12", Count: 3},
			{Model: "iPhone 11", Count: 2},
		},
	}
	svc := newTestService(t, repo, nil)

	summary, err := svc.Summary(context.Background(), PeriodDay)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.ProfitCents != 300000 {
		t.Fatalf("expected profit 300000, got %d", summary.ProfitCents)
	}
	if summary.AverageTicketCents != 250000 {
		t.Fatalf("expected average ticket 250000, got %d", summary.AverageTicketCents)
	}
	if summary.RevenueDisplay != "R$ 10.000,00" {
		t.Fatalf("unexpected revenue display %q", summary.RevenueDisplay)
	}
	if len(summary.TopModels) != 2 || summary.TopModels[0].Model != "iPhone 12" {
		t.Fatalf("unexpected top models %v", summary.TopModels)
	}
}

func TestSummaryZeroSales(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil)

	summary, err := svc.Summary(context.Background(), PeriodMonth)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.AverageTicketCents != 0 {
		t.Fatalf("average ticket must be zero without sales, got %d", summary.AverageTicketCents)
	}
}

func TestSummaryInvalidPeriod(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, nil)

	_, err := svc.Summary(context.Background(), Period("year"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSummaryServedFromCache(t *testing.T) {
	repo := &stubRepo{
		sales: SalesTotals{SalesCount: 1, UnitsSold: 1, RevenueCents: 100000, CostCents: 60000},
	}
	cache := newStubCache()
	svc := newTestService(t, repo, cache)
	ctx := context.Background()

	if _, err := svc.Summary(ctx, PeriodDay); err != nil {
		t.Fatalf("first Summary: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one aggregate pass, got %d", repo.calls)
	}

	second, err := svc.Summary(ctx, PeriodDay)
	if err != nil {
		t.Fatalf("second Summary: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("second call must hit the cache, aggregates ran %d times", repo.calls)
	}
	if second.RevenueCents != 100000 {
		t.Fatalf("cached summary corrupted: %+v", second)
	}
}

func TestWindowForWeek(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	from, to := windowFor(PeriodWeek, now)
	if !to.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window end %v", to)
	}
	if !from.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start %v", from)
	}
}
