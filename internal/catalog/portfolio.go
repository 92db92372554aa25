package catalog

import (
	"sync"

	"github.com/erivas/wealthdesk/internal/domain"
)

// PortfolioCatalog is a read-only, thread-safe catalog of portfolios.
type PortfolioCatalog struct {
	mu    sync.RWMutex
	byID  map[string]domain.Portfolio
	order []string
}

// NewPortfolioCatalog creates a catalog holding the given portfolios.
// Entries with a duplicate id or an unknown currency code are skipped.
func NewPortfolioCatalog(portfolios []domain.Portfolio) *PortfolioCatalog {
	c := &PortfolioCatalog{
		byID:  make(map[string]domain.Portfolio, len(portfolios)),
		order: make([]string, 0, len(portfolios)),
	}
	for _, p := range portfolios {
		if _, exists := c.byID[p.PortfolioID]; exists {
			continue
		}
		if !domain.ValidCurrency(p.Currency) {
			continue
		}
		c.byID[p.PortfolioID] = p
		c.order = append(c.order, p.PortfolioID)
	}
	return c
}

// List returns all portfolios in seed order.
func (c *PortfolioCatalog) List() []domain.Portfolio {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Portfolio, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Get retrieves a portfolio by id. It returns
// domain.ErrPortfolioNotFound if the portfolio does not exist.
func (c *PortfolioCatalog) Get(id string) (domain.Portfolio, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.byID[id]
	if !ok {
		return domain.Portfolio{}, domain.ErrPortfolioNotFound
	}
	return p, nil
}
