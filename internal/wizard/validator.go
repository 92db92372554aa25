package wizard

import (
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/shopspring/decimal"
)

var oneLeverage = decimal.NewFromInt(1)

// CanAdvance is the pure step gate: it decides whether the "Next"
// transition out of step is permitted for the given draft, and returns
// the blocking reason when it is not. Same inputs always produce the
// same answer; the function holds no state.
//
// The allocation-sum and balance-bound checks are deliberately not here:
// they need reconciler/catalog context and run in the controller when
// leaving the allocation step and again at submit.
func CanAdvance(step Step, d *domain.TradeOrder) (bool, string) {
	switch step {
	case StepInstrument:
		if d.InstrumentID == "" {
			return false, "select an instrument"
		}

	case StepExecution:
		if d.ExecutionType == "" {
			return false, "select an execution type"
		}
		if d.TimeInForce == "" {
			return false, "select a time in force"
		}
		if d.TimeInForce == domain.TimeInForceGTD && d.GtdDate == nil {
			return false, "good-till-date orders need an expiry date"
		}

	case StepTerms:
		if d.Quantity.Sign() <= 0 {
			return false, "quantity must be greater than zero"
		}
		if d.ExecutionType != domain.ExecutionMarket && d.Price.Sign() <= 0 {
			return false, "price must be greater than zero"
		}

	case StepLeverage:
		if d.Leverage.LessThan(oneLeverage) {
			return false, "leverage must be at least 1"
		}

	case StepAllocation:
		srcOK, dstOK := allocationsPresent(d)
		if !srcOK {
			return false, "add at least one source allocation"
		}
		if !dstOK {
			return false, "add at least one destination allocation"
		}

	case StepBroker:
		// Empty string and the best-execution sentinel are both valid;
		// only "never chosen" blocks.
		if d.BrokerID == nil {
			return false, "choose a broker or best execution"
		}

	case StepReview:
		// Terminal gate lives at submit.
	}
	return true, ""
}

// allocationsPresent reports whether the role-appropriate pair of
// allocation slices is non-empty for the draft's order type.
func allocationsPresent(d *domain.TradeOrder) (source, destination bool) {
	if d.Type == domain.OrderTypeSell {
		return len(d.InstrumentAllocations) > 0, len(d.DepositAllocations) > 0
	}
	return len(d.FundingAllocations) > 0, len(d.DepositAllocations) > 0
}
