package installments

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/outletplus/pos-backend/internal/rates"
	"github.com/outletplus/pos-backend/pkg/db/models"
)

type stubRates struct {
	rows []models.PaymentRate
	err  error
}

func (s *stubRates) List(ctx context.Context) ([]models.PaymentRate, error) {
	return s.rows, s.err
}

func TestGrossUp(t *testing.T) {
	charge, ok := GrossUp(decimal.NewFromInt(1000), decimal.RequireFromString("1.8"))
	if !ok {
		t.Fatal("expected computable charge")
	}
	if !charge.Equal(decimal.RequireFromString("1018.33")) {
		t.Fatalf("GrossUp = %s, want 1018.33", charge)
	}
}

func TestGrossUpFullPassRateNotComputable(t *testing.T) {
	if _, ok := GrossUp(decimal.NewFromInt(1000), decimal.NewFromInt(100)); ok {
		t.Fatal("pass rate of 100%% must not be computable")
	}
	if _, ok := GrossUp(decimal.NewFromInt(1000), decimal.NewFromInt(120)); ok {
		t.Fatal("pass rate above 100%% must not be computable")
	}
}

func TestNetDown(t *testing.T) {
	net := NetDown(decimal.NewFromInt(1000), decimal.RequireFromString("1.5"))
	if !net.Equal(decimal.RequireFromString("985")) {
		t.Fatalf("NetDown = %s, want 985", net)
	}
}

func TestTableUsesConfiguredRates(t *testing.T) {
	calc, err := NewCalculator(&stubRates{rows: []models.PaymentRate{
		{Installments: 2, CostPercent: decimal.NewFromInt(3), PassPercent: decimal.RequireFromString("3.6")},
		{Installments: 10, CostPercent: decimal.NewFromInt(15), PassPercent: decimal.NewFromInt(100)},
	}})
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}

	rows, err := calc.Table(context.Background(), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if !first.Computable {
		t.Fatal("first row should be computable")
	}
	if !first.ChargeTotal.Equal(decimal.RequireFromString("1037.34")) {
		t.Fatalf("ChargeTotal = %s, want 1037.34", first.ChargeTotal)
	}
	if !first.PerInstallment.Equal(decimal.RequireFromString("518.67")) {
		t.Fatalf("PerInstallment = %s, want 518.67", first.PerInstallment)
	}
	if !first.NetTotal.Equal(decimal.RequireFromString("970")) {
		t.Fatalf("NetTotal = %s, want 970", first.NetTotal)
	}
	if first.ChargeTotalDisplay != "R$ 1.037,34" {
		t.Fatalf("ChargeTotalDisplay = %q", first.ChargeTotalDisplay)
	}

	second := rows[1]
	if second.Computable {
		t.Fatal("row with 100%% pass rate must not be computable")
	}
	if second.ChargeTotalDisplay != "" {
		t.Fatalf("non-computable row should omit charge display, got %q", second.ChargeTotalDisplay)
	}
	// net-down still works on non-computable rows
	if !second.NetTotal.Equal(decimal.RequireFromString("850")) {
		t.Fatalf("NetTotal = %s, want 850", second.NetTotal)
	}
}

func TestTableFallsBackToDefaultRates(t *testing.T) {
	calc, err := NewCalculator(&stubRates{})
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	rows, err := calc.Table(context.Background(), decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(rows) != len(rates.DefaultTable()) {
		t.Fatalf("expected %d default rows, got %d", len(rates.DefaultTable()), len(rows))
	}
	if rows[0].Installments != 1 || rows[17].Installments != 18 {
		t.Fatalf("unexpected installment ordering")
	}
	if !rows[17].PassPercent.Equal(decimal.RequireFromString("32.4")) {
		t.Fatalf("row 18 pass percent = %s, want 32.4", rows[17].PassPercent)
	}
}

func TestTableRejectsNonPositiveAmount(t *testing.T) {
	calc, _ := NewCalculator(&stubRates{})
	if _, err := calc.Table(context.Background(), decimal.Zero); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestTablePropagatesRepositoryError(t *testing.T) {
	calc, _ := NewCalculator(&stubRates{err: errors.New("db down")})
	if _, err := calc.Table(context.Background(), decimal.NewFromInt(100)); err == nil {
		t.Fatal("expected error")
	}
}
