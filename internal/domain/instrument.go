package domain

import "github.com/shopspring/decimal"

// Instrument is a tradable security from the reference catalog.
// CurrentPrice is the authoritative reference price used for market
// orders and for amount↔quantity conversion. Immutable within a session.
type Instrument struct {
	InstrumentID string
	Symbol       string
	Name         string
	Exchange     string
	Currency     string
	CurrentPrice decimal.Decimal
}
