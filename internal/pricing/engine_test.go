package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func TestQuoteFullBuildUp(t *testing.T) {
	engine := NewEngine(5)
	quote := engine.Quote(Settings{
		UnitPrice:      "500",
		ExchangeRate:   "5",
		FreightPercent: "10",
		RetailMarkup:   "40",
	})

	mustEqual(t, "BaseValue", quote.BaseValue, "2500")
	mustEqual(t, "FreightValue", quote.FreightValue, "250")
	mustEqual(t, "CostNoFreight", quote.CostNoFreight, "2500")
	mustEqual(t, "FinalCost", quote.FinalCost, "2750")
	mustEqual(t, "RetailPrice", quote.RetailPrice, "3850")
	mustEqual(t, "RetailMargin", quote.RetailMargin, "40")

	if quote.FinalCostDisplay != "R$ 2.750,00" {
		t.Fatalf("FinalCostDisplay = %q", quote.FinalCostDisplay)
	}
	if quote.RetailPriceDisplay != "R$ 3.850,00" {
		t.Fatalf("RetailPriceDisplay = %q", quote.RetailPriceDisplay)
	}
}

func TestQuoteCommaDecimalInput(t *testing.T) {
	engine := NewEngine(5)
	quote := engine.Quote(Settings{
		UnitPrice:    "499,90",
		ExchangeRate: "5,10",
	})

	mustEqual(t, "BaseValue", quote.BaseValue, "2549.49")
	// no freight: final cost is just the base rounded up
	mustEqual(t, "FinalCost", quote.FinalCost, "2550")
}

func TestQuoteGarbageInputCollapsesToZero(t *testing.T) {
	engine := NewEngine(5)
	quote := engine.Quote(Settings{
		UnitPrice:    "abc",
		ExchangeRate: "5",
		RetailMarkup: "40",
	})

	mustEqual(t, "BaseValue", quote.BaseValue, "0")
	mustEqual(t, "FinalCost", quote.FinalCost, "0")
	mustEqual(t, "RetailPrice", quote.RetailPrice, "0")
	mustEqual(t, "RetailMargin", quote.RetailMargin, "0")
}

func TestQuoteManualOverrideWinsVerbatim(t *testing.T) {
	engine := NewEngine(5)
	quote := engine.Quote(Settings{
		UnitPrice:    "500",
		ExchangeRate: "5",
		RetailMarkup: "40",
		ManualRetail: "4001",
	})

	// the override is not re-rounded to the increment
	mustEqual(t, "RetailPrice", quote.RetailPrice, "4001")
}

func TestQuoteManualOverrideZeroIsIgnored(t *testing.T) {
	engine := NewEngine(5)
	quote := engine.Quote(Settings{
		UnitPrice:    "500",
		ExchangeRate: "5",
		RetailMarkup: "40",
		ManualRetail: "0",
	})

	mustEqual(t, "RetailPrice", quote.RetailPrice, "3500")
}

func TestMarginZeroCostGuard(t *testing.T) {
	mustEqual(t, "Margin", Margin(decimal.NewFromInt(100), decimal.Zero), "0")
	mustEqual(t, "Margin", Margin(decimal.NewFromInt(150), decimal.NewFromInt(100)), "50")
}

func TestNewEngineDefaultsIncrement(t *testing.T) {
	engine := NewEngine(0)
	quote := engine.Quote(Settings{UnitPrice: "1", ExchangeRate: "1"})
	mustEqual(t, "FinalCost", quote.FinalCost, "5")
}

func TestQuoteFinalCostCoversCostNoFreight(t *testing.T) {
	engine := NewEngine(5)
	five := decimal.NewFromInt(5)

	cases := []Settings{
		{UnitPrice: "500", ExchangeRate: "5", FreightPercent: "10"},
		{UnitPrice: "499,90", ExchangeRate: "5,12", FreightPercent: "0"},
		{UnitPrice: "1", ExchangeRate: "1", FreightPercent: "99"},
		{UnitPrice: "0", ExchangeRate: "5", FreightPercent: "10"},
		{UnitPrice: "123,45", ExchangeRate: "4,87", FreightPercent: "3,5"},
	}
	for _, settings := range cases {
		quote := engine.Quote(settings)
		if quote.FinalCost.LessThan(quote.CostNoFreight) {
			t.Fatalf("Quote(%+v): final cost %s below cost without freight %s",
				settings, quote.FinalCost, quote.CostNoFreight)
		}
		if !quote.CostNoFreight.Mod(five).IsZero() || !quote.FinalCost.Mod(five).IsZero() {
			t.Fatalf("Quote(%+v): costs %s / %s are not multiples of 5",
				settings, quote.CostNoFreight, quote.FinalCost)
		}
	}
}
