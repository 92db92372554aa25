package catalog

import (
	"sync"

	"github.com/erivas/wealthdesk/internal/domain"
)

// AccountCatalog is a read-only, thread-safe catalog of cash accounts
// and credit facilities, the two funding-source kinds.
type AccountCatalog struct {
	mu          sync.RWMutex
	cash        map[string]domain.CashAccount
	credit      map[string]domain.CreditFacility
	cashOrder   []string
	creditOrder []string
}

// NewAccountCatalog creates a catalog holding the given accounts.
// Entries with a duplicate id or an unknown currency code are skipped.
func NewAccountCatalog(cash []domain.CashAccount, credit []domain.CreditFacility) *AccountCatalog {
	c := &AccountCatalog{
		cash:   make(map[string]domain.CashAccount, len(cash)),
		credit: make(map[string]domain.CreditFacility, len(credit)),
	}
	for _, a := range cash {
		if _, exists := c.cash[a.AccountID]; exists {
			continue
		}
		if !domain.ValidCurrency(a.Currency) {
			continue
		}
		c.cash[a.AccountID] = a
		c.cashOrder = append(c.cashOrder, a.AccountID)
	}
	for _, f := range credit {
		if _, exists := c.credit[f.FacilityID]; exists {
			continue
		}
		if !domain.ValidCurrency(f.Currency) {
			continue
		}
		c.credit[f.FacilityID] = f
		c.creditOrder = append(c.creditOrder, f.FacilityID)
	}
	return c
}

// ListCash returns all cash accounts in seed order.
func (c *AccountCatalog) ListCash() []domain.CashAccount {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CashAccount, 0, len(c.cashOrder))
	for _, id := range c.cashOrder {
		out = append(out, c.cash[id])
	}
	return out
}

// ListCredit returns all credit facilities in seed order.
func (c *AccountCatalog) ListCredit() []domain.CreditFacility {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CreditFacility, 0, len(c.creditOrder))
	for _, id := range c.creditOrder {
		out = append(out, c.credit[id])
	}
	return out
}

// GetCash retrieves a cash account by id. It returns
// domain.ErrAccountNotFound if the account does not exist.
func (c *AccountCatalog) GetCash(id string) (domain.CashAccount, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.cash[id]
	if !ok {
		return domain.CashAccount{}, domain.ErrAccountNotFound
	}
	return a, nil
}

// GetCredit retrieves a credit facility by id. It returns
// domain.ErrAccountNotFound if the facility does not exist.
func (c *AccountCatalog) GetCredit(id string) (domain.CreditFacility, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.credit[id]
	if !ok {
		return domain.CreditFacility{}, domain.ErrAccountNotFound
	}
	return f, nil
}
