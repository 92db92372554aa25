package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ValidCurrency reports whether code is a known ISO 4217 currency code.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// RoundAmount rounds a monetary amount to the minor-unit precision of
// its currency (2 for most, 0 for JPY-style currencies). Unknown codes
// fall back to 2 decimal places.
func RoundAmount(amount decimal.Decimal, code string) decimal.Decimal {
	places := int32(2)
	if c := money.GetCurrency(code); c != nil {
		places = int32(c.Fraction)
	}
	return amount.Round(places)
}
