package domain

import "github.com/shopspring/decimal"

// CashAccount is a cash account from the reference catalog. Balance
// bounds how much it can contribute to funding a buy order.
type CashAccount struct {
	AccountID     string
	InstitutionID string
	Name          string
	Currency      string
	Balance       decimal.Decimal
}

// CreditFacility is a credit line from the reference catalog.
type CreditFacility struct {
	FacilityID    string
	InstitutionID string
	Name          string
	Currency      string
	Limit         decimal.Decimal
	Used          decimal.Decimal
}

// Available returns the undrawn headroom of the facility (limit − used).
func (f *CreditFacility) Available() decimal.Decimal {
	return f.Limit.Sub(f.Used)
}
