package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes buy orders (funded from cash/credit, deposited
// into portfolios) from sell orders (sourced from portfolios, proceeds
// deposited into cash accounts).
type OrderType string

const (
	OrderTypeBuy  OrderType = "buy"
	OrderTypeSell OrderType = "sell"
)

// ExecutionType is the execution instruction attached to an order.
type ExecutionType string

const (
	ExecutionMarket    ExecutionType = "market"
	ExecutionLimit     ExecutionType = "limit"
	ExecutionStop      ExecutionType = "stop"
	ExecutionStopLimit ExecutionType = "stop_limit"
)

// TimeInForce is the validity policy governing how long an unfilled
// order remains active.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceGTD TimeInForce = "gtd"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

// OrderStatus represents the lifecycle state of a submitted order.
type OrderStatus string

const (
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusExpired  OrderStatus = "expired"
)

// TradeOrder is the order record. While the wizard is open it is the
// mutable draft owned by the session controller; on successful
// submission it becomes an immutable accepted record with the derived
// fields filled in.
//
// BrokerID is a pointer because "unset" must be distinguishable from
// the valid empty-string and best-execution values.
type TradeOrder struct {
	OrderID       string
	Type          OrderType
	InstrumentID  string
	Quantity      decimal.Decimal
	Price         decimal.Decimal // limit/stop price, zero for market orders
	ExecutionType ExecutionType
	TimeInForce   TimeInForce
	GtdDate       *time.Time // required iff TimeInForce is gtd
	Leverage      decimal.Decimal
	BrokerID      *string

	// Exactly the pair of allocation slices matching Type is populated:
	// buy → Funding + Deposit (portfolio), sell → Instrument + Deposit (cash).
	InstrumentAllocations []InstrumentAllocation
	FundingAllocations    []FundingAllocation
	DepositAllocations    []DepositAllocation

	// Derived at submission.
	EffectivePrice decimal.Decimal
	TotalAmount    decimal.Decimal
	EstimatedFees  decimal.Decimal
	Currency       string

	Status      OrderStatus
	SubmittedAt time.Time
	ExpiredAt   *time.Time
}

// NewDraftOrder creates an empty draft of the given type with leverage 1
// and empty allocation slices.
func NewDraftOrder(t OrderType) TradeOrder {
	return TradeOrder{
		Type:                  t,
		Leverage:              decimal.NewFromInt(1),
		InstrumentAllocations: []InstrumentAllocation{},
		FundingAllocations:    []FundingAllocation{},
		DepositAllocations:    []DepositAllocation{},
	}
}

// Clone returns a deep copy of the order. Snapshots handed outside the
// session controller must not alias the controller's slices.
func (o *TradeOrder) Clone() TradeOrder {
	c := *o
	c.InstrumentAllocations = append([]InstrumentAllocation(nil), o.InstrumentAllocations...)
	c.FundingAllocations = append([]FundingAllocation(nil), o.FundingAllocations...)
	c.DepositAllocations = append([]DepositAllocation(nil), o.DepositAllocations...)
	if o.GtdDate != nil {
		d := *o.GtdDate
		c.GtdDate = &d
	}
	if o.BrokerID != nil {
		b := *o.BrokerID
		c.BrokerID = &b
	}
	if o.ExpiredAt != nil {
		e := *o.ExpiredAt
		c.ExpiredAt = &e
	}
	return c
}

// ValidOrderTypes lists all valid order type values for validation.
var ValidOrderTypes = map[OrderType]bool{
	OrderTypeBuy:  true,
	OrderTypeSell: true,
}

// ValidExecutionTypes lists all valid execution type values for validation.
var ValidExecutionTypes = map[ExecutionType]bool{
	ExecutionMarket:    true,
	ExecutionLimit:     true,
	ExecutionStop:      true,
	ExecutionStopLimit: true,
}

// ValidTimeInForce lists all valid time-in-force values for validation.
var ValidTimeInForce = map[TimeInForce]bool{
	TimeInForceDay: true,
	TimeInForceGTC: true,
	TimeInForceGTD: true,
	TimeInForceIOC: true,
	TimeInForceFOK: true,
}
