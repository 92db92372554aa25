package catalog

import (
	"sync"

	"github.com/erivas/wealthdesk/internal/domain"
)

// InstrumentCatalog is a read-only, thread-safe catalog of instruments,
// seeded once at startup.
type InstrumentCatalog struct {
	mu    sync.RWMutex
	byID  map[string]domain.Instrument
	order []string // stable listing order
}

// NewInstrumentCatalog creates a catalog holding the given instruments.
// Entries with a duplicate id or an unknown currency code are skipped.
func NewInstrumentCatalog(instruments []domain.Instrument) *InstrumentCatalog {
	c := &InstrumentCatalog{
		byID:  make(map[string]domain.Instrument, len(instruments)),
		order: make([]string, 0, len(instruments)),
	}
	for _, in := range instruments {
		if _, exists := c.byID[in.InstrumentID]; exists {
			continue
		}
		if !domain.ValidCurrency(in.Currency) {
			continue
		}
		c.byID[in.InstrumentID] = in
		c.order = append(c.order, in.InstrumentID)
	}
	return c
}

// List returns all instruments in seed order.
func (c *InstrumentCatalog) List() []domain.Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Instrument, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get retrieves an instrument by id. It returns
// domain.ErrInstrumentNotFound if the instrument does not exist.
func (c *InstrumentCatalog) Get(id string) (domain.Instrument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	in, ok := c.byID[id]
	if !ok {
		return domain.Instrument{}, domain.ErrInstrumentNotFound
	}
	return in, nil
}
