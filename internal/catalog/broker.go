package catalog

import (
	"sync"

	"github.com/erivas/wealthdesk/internal/domain"
)

// BrokerCatalog is a read-only, thread-safe catalog of brokers. The
// best-execution sentinel is always present regardless of seed data.
type BrokerCatalog struct {
	mu    sync.RWMutex
	byID  map[string]domain.Broker
	order []string
}

// NewBrokerCatalog creates a catalog holding the best-execution entry
// followed by the given brokers.
func NewBrokerCatalog(brokers []domain.Broker) *BrokerCatalog {
	c := &BrokerCatalog{
		byID: make(map[string]domain.Broker, len(brokers)+1),
	}
	best := domain.Broker{BrokerID: domain.BrokerBestExecution, Name: "Best execution"}
	c.byID[best.BrokerID] = best
	c.order = append(c.order, best.BrokerID)
	for _, b := range brokers {
		if _, exists := c.byID[b.BrokerID]; exists {
			continue
		}
		c.byID[b.BrokerID] = b
		c.order = append(c.order, b.BrokerID)
	}
	return c
}

// List returns all brokers, best execution first.
func (c *BrokerCatalog) List() []domain.Broker {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Broker, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Exists returns true if a broker with the given id exists.
func (c *BrokerCatalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.byID[id]
	return ok
}
