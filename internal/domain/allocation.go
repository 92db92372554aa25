package domain

import "github.com/shopspring/decimal"

// FundingSourceType identifies what kind of account funds a buy order.
type FundingSourceType string

const (
	FundingSourceCash   FundingSourceType = "cash"
	FundingSourceCredit FundingSourceType = "credit"
)

// DepositDestinationType identifies where a deposit allocation lands:
// a portfolio (units of the instrument, buy side) or a cash account
// (sale proceeds, sell side).
type DepositDestinationType string

const (
	DepositToPortfolio DepositDestinationType = "portfolio"
	DepositToCash      DepositDestinationType = "cash"
)

// InstrumentAllocation is a sell-side source: a portfolio supplying a
// quantity of the instrument being sold.
type InstrumentAllocation struct {
	PortfolioID string
	Quantity    decimal.Decimal
}

// FundingAllocation is a buy-side source: a cash account or credit
// facility supplying an amount of currency.
type FundingAllocation struct {
	SourceID   string
	SourceType FundingSourceType
	Amount     decimal.Decimal
	Currency   string
}

// DepositAllocation is the shared destination shape. Quantity is set
// when the destination is a portfolio, Amount when it is a cash account;
// the other pointer is nil.
type DepositAllocation struct {
	DestinationID   string
	DestinationType DepositDestinationType
	Quantity        *decimal.Decimal
	Amount          *decimal.Decimal
	Currency        string
}
