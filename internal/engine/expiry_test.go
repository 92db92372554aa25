package engine

import (
	"testing"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/store"
)

func acceptedOrder(id string, tif domain.TimeInForce, submittedAt time.Time, gtd *time.Time) *domain.TradeOrder {
	o := domain.NewDraftOrder(domain.OrderTypeBuy)
	o.OrderID = id
	o.Status = domain.OrderStatusAccepted
	o.TimeInForce = tif
	o.SubmittedAt = submittedAt
	o.GtdDate = gtd
	return &o
}

func TestExpiryTime(t *testing.T) {
	submitted := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	day := acceptedOrder("ord-1", domain.TimeInForceDay, submitted, nil)
	got := ExpiryTime(day)
	want := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("day order: got %v, want %v", got, want)
	}

	gtdAt := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	gtd := acceptedOrder("ord-2", domain.TimeInForceGTD, submitted, &gtdAt)
	if got := ExpiryTime(gtd); got == nil || !got.Equal(gtdAt) {
		t.Errorf("gtd order: got %v, want %v", got, gtdAt)
	}

	for _, tif := range []domain.TimeInForce{domain.TimeInForceGTC, domain.TimeInForceIOC, domain.TimeInForceFOK} {
		o := acceptedOrder("ord-x", tif, submitted, nil)
		if got := ExpiryTime(o); got != nil {
			t.Errorf("%s order: got %v, want nil", tif, got)
		}
	}
}

func TestSweeper_ExpiresDueOrders(t *testing.T) {
	orderStore := store.NewOrderStore()
	sweeper := NewExpirySweeper(time.Minute, orderStore)
	submitted := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	day := acceptedOrder("ord-day", domain.TimeInForceDay, submitted, nil)
	gtdAt := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	gtd := acceptedOrder("ord-gtd", domain.TimeInForceGTD, submitted, &gtdAt)
	gtc := acceptedOrder("ord-gtc", domain.TimeInForceGTC, submitted, nil)
	for _, o := range []*domain.TradeOrder{day, gtd, gtc} {
		orderStore.Insert(o)
		sweeper.Add(o)
	}
	if got := sweeper.ActiveCount(); got != 2 {
		t.Fatalf("got %d tracked orders, want 2 (gtc never enters)", got)
	}

	// Before any deadline nothing expires.
	sweeper.Sweep(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	if o, _ := orderStore.Get("ord-day"); o.Status != domain.OrderStatusAccepted {
		t.Error("day order expired before end of day")
	}

	// End of the submission day takes the day order, not the gtd one.
	sweeper.Sweep(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if o, _ := orderStore.Get("ord-day"); o.Status != domain.OrderStatusExpired {
		t.Error("day order not expired after end of day")
	}
	if o, _ := orderStore.Get("ord-gtd"); o.Status != domain.OrderStatusAccepted {
		t.Error("gtd order expired too early")
	}
	if got := sweeper.ActiveCount(); got != 1 {
		t.Errorf("got %d tracked orders after first sweep, want 1", got)
	}

	// Past the gtd date everything is gone.
	sweeper.Sweep(time.Date(2026, 3, 12, 0, 0, 1, 0, time.UTC))
	if o, _ := orderStore.Get("ord-gtd"); o.Status != domain.OrderStatusExpired {
		t.Error("gtd order not expired after its date")
	}
	if o, _ := orderStore.Get("ord-gtc"); o.Status != domain.OrderStatusAccepted {
		t.Error("gtc order must never expire")
	}
	if got := sweeper.ActiveCount(); got != 0 {
		t.Errorf("got %d tracked orders after final sweep, want 0", got)
	}
}

func TestSweeper_RecordsExpiryTimestamp(t *testing.T) {
	orderStore := store.NewOrderStore()
	sweeper := NewExpirySweeper(time.Minute, orderStore)
	submitted := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	o := acceptedOrder("ord-1", domain.TimeInForceDay, submitted, nil)
	orderStore.Insert(o)
	sweeper.Add(o)

	sweeper.Sweep(time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC))
	got, _ := orderStore.Get("ord-1")
	want := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	if got.ExpiredAt == nil || !got.ExpiredAt.Equal(want) {
		t.Errorf("got expired_at %v, want the deadline %v", got.ExpiredAt, want)
	}
}
