// Package money holds the BRL conventions shared across pricing, sales,
// and printing: centavo integers at rest, decimals in flight.
package money

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in centavos.
type Cents int64

var oneHundred = decimal.NewFromInt(100)

// ParseNumeric interprets user-typed numeric input. A comma decimal
// separator is tolerated; anything unparseable collapses to zero rather
// than erroring, matching how the calculator treats half-typed fields.
func ParseNumeric(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundUpToIncrement rounds v up to the next multiple of increment reais.
// Zero and negative values collapse to zero.
func RoundUpToIncrement(v decimal.Decimal, increment int64) decimal.Decimal {
	if increment <= 0 || v.Sign() <= 0 {
		return decimal.Zero
	}
	inc := decimal.NewFromInt(increment)
	return v.Div(inc).Ceil().Mul(inc)
}

// FromDecimal converts a decimal amount of reais into centavos, rounding
// half away from zero at the second decimal place.
func FromDecimal(v decimal.Decimal) Cents {
	return Cents(v.Mul(oneHundred).Round(0).IntPart())
}

// ToDecimal converts centavos into a decimal amount of reais.
func (c Cents) ToDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(oneHundred)
}

// FormatBRL renders centavos as "R$ 1.234,56". Negative amounts carry the
// sign before the currency symbol.
func FormatBRL(c Cents) string {
	return FormatBRLDecimal(c.ToDecimal())
}

// FormatBRLDecimal renders a decimal amount of reais in BRL notation.
func FormatBRLDecimal(v decimal.Decimal) string {
	negative := v.Sign() < 0
	fixed := v.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	b.WriteString("R$ ")

	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(".")
		}
		b.WriteRune(digit)
	}
	b.WriteString(",")
	b.WriteString(fracPart)
	return b.String()
}

// WarrantyEnd returns the warranty expiry for a sale date.
func WarrantyEnd(soldAt time.Time, days int) time.Time {
	return soldAt.AddDate(0, 0, days)
}

// DaysRemaining returns the calendar days from now until end, both
// normalized to midnight. Negative once the end date has passed.
func DaysRemaining(now, end time.Time) int {
	end = end.In(now.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Ceil(endDay.Sub(nowDay).Hours() / 24))
}
