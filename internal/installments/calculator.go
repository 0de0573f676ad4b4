// Package installments computes card-machine charge tables: how much to
// charge a buyer so the store nets a desired amount (gross-up), and what
// the store nets from a gross charge (net-down).
package installments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/outletplus/pos-backend/internal/rates"
	"github.com/outletplus/pos-backend/pkg/db/models"
	pkgerrors "github.com/outletplus/pos-backend/pkg/errors"
	"github.com/outletplus/pos-backend/pkg/money"
)

var oneHundred = decimal.NewFromInt(100)

// Row is one installment option in a computed table.
type Row struct {
	Installments int             `json:"installments"`
	CostPercent  decimal.Decimal `json:"costPercent"`
	PassPercent  decimal.Decimal `json:"passPercent"`

	// Gross-up result: what to charge so the store nets the desired
	// amount. Computable is false when the pass rate eats the whole
	// charge (>= 100%).
	Computable     bool            `json:"computable"`
	ChargeTotal    decimal.Decimal `json:"chargeTotal"`
	PerInstallment decimal.Decimal `json:"perInstallment"`

	// Net-down result: what the store nets from the gross charge.
	NetTotal decimal.Decimal `json:"netTotal"`

	ChargeTotalDisplay    string `json:"chargeTotalDisplay"`
	PerInstallmentDisplay string `json:"perInstallmentDisplay"`
	NetTotalDisplay       string `json:"netTotalDisplay"`
}

type rateLister interface {
	List(ctx context.Context) ([]models.PaymentRate, error)
}

// Calculator produces installment tables from the persisted rates.
type Calculator struct {
	rates rateLister
}

// NewCalculator builds a calculator over the provided rate source.
func NewCalculator(rateRepo rateLister) (*Calculator, error) {
	if rateRepo == nil {
		return nil, fmt.Errorf("rate repository required")
	}
	return &Calculator{rates: rateRepo}, nil
}

// Table computes one row per configured rate for the given amount. The
// amount is interpreted as the desired net for gross-up and as the gross
// charge for net-down.
func (c *Calculator) Table(ctx context.Context, amount decimal.Decimal) ([]Row, error) {
	if amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	configured, err := c.rates.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payment rates")
	}
	if len(configured) == 0 {
		configured = rates.DefaultTable()
	}

	rows := make([]Row, 0, len(configured))
	for _, rate := range configured {
		rows = append(rows, buildRow(rate, amount))
	}
	return rows, nil
}

func buildRow(rate models.PaymentRate, amount decimal.Decimal) Row {
	row := Row{
		Installments: rate.Installments,
		CostPercent:  rate.CostPercent,
		PassPercent:  rate.PassPercent,
	}

	row.NetTotal = NetDown(amount, rate.CostPercent)
	row.NetTotalDisplay = money.FormatBRLDecimal(row.NetTotal)

	charge, ok := GrossUp(amount, rate.PassPercent)
	row.Computable = ok
	if !ok {
		return row
	}

	row.ChargeTotal = charge
	row.PerInstallment = charge.Div(decimal.NewFromInt(int64(rate.Installments))).Round(2)
	row.ChargeTotalDisplay = money.FormatBRLDecimal(row.ChargeTotal)
	row.PerInstallmentDisplay = money.FormatBRLDecimal(row.PerInstallment)
	return row
}

// GrossUp returns the charge that nets desiredNet after the pass rate is
// taken. Pass rates of 100% or more make the charge undefined; the
// second return value reports computability.
func GrossUp(desiredNet, passPercent decimal.Decimal) (decimal.Decimal, bool) {
	factor := decimal.NewFromInt(1).Sub(passPercent.Div(oneHundred))
	if factor.Sign() <= 0 {
		return decimal.Zero, false
	}
	return desiredNet.Div(factor).Round(2), true
}

// NetDown returns what the store receives from a gross charge after the
// acquirer keeps its cost rate.
func NetDown(gross, costPercent decimal.Decimal) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(1).Sub(costPercent.Div(oneHundred))).Round(2)
}
