// Package pricing computes landed cost and sale prices for imported
// devices. Inputs arrive exactly as typed by the user; half-typed or
// garbage fields are treated as zero so the calculator can re-quote on
// every keystroke without erroring.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/outletplus/pos-backend/pkg/money"
)

// DefaultRoundingIncrement is the store policy of pricing to the next
// multiple of 5 reais.
const DefaultRoundingIncrement int64 = 5

// Settings are the raw calculator inputs.
type Settings struct {
	UnitPrice       string `json:"unitPrice"`
	ExchangeRate    string `json:"exchangeRate"`
	FreightPercent  string `json:"freightPercent"`
	RetailMarkup    string `json:"retailMarkup"`
	WholesaleMarkup string `json:"wholesaleMarkup"`
	ManualRetail    string `json:"manualRetail"`
	ManualWholesale string `json:"manualWholesale"`
}

// Quote carries every intermediate value so the UI can show the full
// cost build-up alongside the final prices.
type Quote struct {
	BaseValue       decimal.Decimal `json:"baseValue"`
	FreightValue    decimal.Decimal `json:"freightValue"`
	CostNoFreight   decimal.Decimal `json:"costNoFreight"`
	FinalCost       decimal.Decimal `json:"finalCost"`
	RetailPrice     decimal.Decimal `json:"retailPrice"`
	WholesalePrice  decimal.Decimal `json:"wholesalePrice"`
	RetailMargin    decimal.Decimal `json:"retailMargin"`
	WholesaleMargin decimal.Decimal `json:"wholesaleMargin"`

	FinalCostDisplay      string `json:"finalCostDisplay"`
	RetailPriceDisplay    string `json:"retailPriceDisplay"`
	WholesalePriceDisplay string `json:"wholesalePriceDisplay"`
}

// Engine prices devices according to store policy.
type Engine struct {
	increment int64
}

// NewEngine builds an engine with the provided rounding increment.
// Non-positive increments fall back to the default.
func NewEngine(increment int64) *Engine {
	if increment <= 0 {
		increment = DefaultRoundingIncrement
	}
	return &Engine{increment: increment}
}

// Quote computes the full cost build-up for the provided settings.
func (e *Engine) Quote(s Settings) Quote {
	unitPrice := money.ParseNumeric(s.UnitPrice)
	exchangeRate := money.ParseNumeric(s.ExchangeRate)
	freightPercent := money.ParseNumeric(s.FreightPercent)

	base := unitPrice.Mul(exchangeRate)
	freight := base.Mul(freightPercent).Div(decimal.NewFromInt(100))
	costNoFreight := money.RoundUpToIncrement(base, e.increment)
	finalCost := money.RoundUpToIncrement(base.Add(freight), e.increment)

	retail := e.price(finalCost, s.RetailMarkup, s.ManualRetail)
	wholesale := e.price(finalCost, s.WholesaleMarkup, s.ManualWholesale)

	return Quote{
		BaseValue:       base,
		FreightValue:    freight,
		CostNoFreight:   costNoFreight,
		FinalCost:       finalCost,
		RetailPrice:     retail,
		WholesalePrice:  wholesale,
		RetailMargin:    Margin(retail, finalCost),
		WholesaleMargin: Margin(wholesale, finalCost),

		FinalCostDisplay:      money.FormatBRLDecimal(finalCost),
		RetailPriceDisplay:    money.FormatBRLDecimal(retail),
		WholesalePriceDisplay: money.FormatBRLDecimal(wholesale),
	}
}

// price applies the markup over cost unless a positive manual override is
// present; the override wins verbatim, without re-rounding.
func (e *Engine) price(finalCost decimal.Decimal, markup, manual string) decimal.Decimal {
	if manualValue := money.ParseNumeric(manual); manualValue.Sign() > 0 {
		return manualValue
	}
	markupFactor := decimal.NewFromInt(1).Add(money.ParseNumeric(markup).Div(decimal.NewFromInt(100)))
	return money.RoundUpToIncrement(finalCost.Mul(markupFactor), e.increment)
}

// Margin returns the percentage gain of price over cost. A zero cost
// yields zero rather than dividing by it.
func Margin(price, cost decimal.Decimal) decimal.Decimal {
	if cost.Sign() <= 0 {
		return decimal.Zero
	}
	return price.Div(cost).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
}
