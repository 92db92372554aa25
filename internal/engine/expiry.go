package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/store"
)

// ExpirySweeper tracks accepted day/GTD orders sorted by their expiry
// time and periodically flips them to expired in the blotter. GTC, IOC
// and FOK orders never enter the sweeper.
type ExpirySweeper struct {
	interval   time.Duration
	orderStore *store.OrderStore

	mu     sync.Mutex
	active []activeEntry // sorted by expiresAt ASC
}

type activeEntry struct {
	expiresAt time.Time
	orderID   string
}

// NewExpirySweeper creates a sweeper ticking at the given interval.
func NewExpirySweeper(interval time.Duration, orderStore *store.OrderStore) *ExpirySweeper {
	return &ExpirySweeper{
		interval:   interval,
		orderStore: orderStore,
	}
}

// ExpiryTime returns when an accepted order stops being valid: end of
// the submission day (UTC) for day orders, the GTD date for gtd orders,
// nil for everything else.
func ExpiryTime(o *domain.TradeOrder) *time.Time {
	switch o.TimeInForce {
	case domain.TimeInForceDay:
		d := o.SubmittedAt.UTC()
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
		return &end
	case domain.TimeInForceGTD:
		return o.GtdDate
	}
	return nil
}

// Add registers an order for expiry tracking. Orders without an expiry
// time are ignored.
func (e *ExpirySweeper) Add(o *domain.TradeOrder) {
	at := ExpiryTime(o)
	if at == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := activeEntry{expiresAt: *at, orderID: o.OrderID}
	idx := sort.Search(len(e.active), func(i int) bool {
		return e.active[i].expiresAt.After(entry.expiresAt)
	})
	e.active = append(e.active, activeEntry{})
	copy(e.active[idx+1:], e.active[idx:])
	e.active[idx] = entry
}

// ActiveCount returns how many orders are awaiting expiry.
func (e *ExpirySweeper) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Start runs the sweep loop until ctx is cancelled.
func (e *ExpirySweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			e.Sweep(t)
		}
	}
}

// Sweep expires every tracked order whose expiry time is at or before
// now. Exported so tests can step time deterministically.
func (e *ExpirySweeper) Sweep(now time.Time) {
	e.mu.Lock()
	cutoff := 0
	for cutoff < len(e.active) && !e.active[cutoff].expiresAt.After(now) {
		cutoff++
	}
	expired := e.active[:cutoff]
	e.active = e.active[cutoff:]
	e.mu.Unlock()

	for _, entry := range expired {
		e.orderStore.MarkExpired(entry.orderID, entry.expiresAt)
	}
}
