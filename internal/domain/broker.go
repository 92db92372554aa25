package domain

// BrokerBestExecution is the sentinel broker id denoting automatic
// best-execution routing rather than a concrete broker.
const BrokerBestExecution = "best"

// Broker is an execution broker from the reference catalog.
type Broker struct {
	BrokerID string
	Name     string
}
