package domain

import "github.com/shopspring/decimal"

// Holding is a portfolio's position in a single instrument.
type Holding struct {
	Quantity             decimal.Decimal
	AveragePurchasePrice decimal.Decimal
}

// Portfolio is an investment portfolio from the reference catalog. Its
// holding for the selected instrument bounds how much it can supply in
// a sell order.
type Portfolio struct {
	PortfolioID   string
	InstitutionID string
	Name          string
	Currency      string
	Holdings      map[string]Holding // instrument_id → holding
}

// HoldingQuantity returns the held quantity for the given instrument,
// or zero if the portfolio has no position in it.
func (p *Portfolio) HoldingQuantity(instrumentID string) decimal.Decimal {
	h, ok := p.Holdings[instrumentID]
	if !ok {
		return decimal.Zero
	}
	return h.Quantity
}
