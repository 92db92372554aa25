package wizard

// Step is an index into the order wizard's fixed step sequence.
type Step int

const (
	StepInstrument Step = iota // pick the instrument
	StepExecution              // execution type + time in force
	StepTerms                  // quantity and price
	StepLeverage               // leverage multiplier
	StepAllocation             // source and destination allocations
	StepBroker                 // broker routing
	StepReview                 // final review, submit from here
)

// LastStep is the terminal review step.
const LastStep = StepReview

func (s Step) String() string {
	switch s {
	case StepInstrument:
		return "instrument"
	case StepExecution:
		return "execution"
	case StepTerms:
		return "terms"
	case StepLeverage:
		return "leverage"
	case StepAllocation:
		return "allocation"
	case StepBroker:
		return "broker"
	case StepReview:
		return "review"
	}
	return "unknown"
}
