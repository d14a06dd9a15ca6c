package shared

import "github.com/shopspring/decimal"

// AmountPlaces is the number of fractional digits rendered for an amount
const AmountPlaces = 4

// FormatAmount renders a with exactly AmountPlaces fractional digits
func FormatAmount(a Amount) string {
	return decimal.NewFromFloat(a).StringFixed(AmountPlaces)
}
