package domain

import "github.com/shopspring/decimal"

// CentsFromDecimal converts a decimal dollar amount to minor units. Digits
// beyond the cent are truncated toward zero rather than rounded, so repeated
// conversions of a cent-exact value are stable.
func CentsFromDecimal(d decimal.Decimal) int64 {
	return d.Shift(2).Truncate(0).IntPart()
}

// DecimalFromCents converts minor units back to a decimal dollar amount.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
