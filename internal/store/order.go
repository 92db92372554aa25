package store

import (
	"sync"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/google/btree"
)

// blotterEntry keys the blotter index by submission time then order id.
type blotterEntry struct {
	SubmittedAt time.Time
	OrderID     string
}

// blotterLess orders entries newest-first so Ascend walks the blotter
// the way the dashboard lists it, ties broken by order id.
func blotterLess(a, b blotterEntry) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return a.OrderID < b.OrderID
}

// OrderStore is a thread-safe in-memory store for accepted orders, with
// a primary index by order id and a btree blotter index ordered by
// submission time descending. The store owns its records: Insert copies
// the order in, Get and ListRecent copy it out, so the expiry sweeper
// can flip Status/ExpiredAt under the mutex without racing readers that
// hold previously returned orders.
type OrderStore struct {
	mu      sync.RWMutex
	orders  map[string]*domain.TradeOrder
	blotter *btree.BTreeG[blotterEntry]
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	const degree = 32
	return &OrderStore{
		orders:  make(map[string]*domain.TradeOrder),
		blotter: btree.NewG[blotterEntry](degree, blotterLess),
	}
}

// Insert adds an accepted order to the store and the blotter index. The
// store keeps its own copy; the caller's order is not aliased.
func (s *OrderStore) Insert(o *domain.TradeOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := o.Clone()
	s.orders[c.OrderID] = &c
	s.blotter.ReplaceOrInsert(blotterEntry{SubmittedAt: c.SubmittedAt, OrderID: c.OrderID})
}

// Get retrieves a copy of an order by id. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *OrderStore) Get(id string) (*domain.TradeOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	c := o.Clone()
	return &c, nil
}

// ListRecent returns copies of up to limit orders, newest first.
func (s *OrderStore) ListRecent(limit int) []*domain.TradeOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TradeOrder, 0, limit)
	s.blotter.Ascend(func(e blotterEntry) bool {
		c := s.orders[e.OrderID].Clone()
		out = append(out, &c)
		return len(out) < limit
	})
	return out
}

// MarkExpired flips an accepted order to expired. Orders already past
// accepted are left alone.
func (s *OrderStore) MarkExpired(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || o.Status != domain.OrderStatusAccepted {
		return
	}
	o.Status = domain.OrderStatusExpired
	t := at
	o.ExpiredAt = &t
}
