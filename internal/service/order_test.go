package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erivas/wealthdesk/internal/catalog"
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/engine"
	"github.com/erivas/wealthdesk/internal/store"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalogs() *catalog.Catalogs {
	instruments := []domain.Instrument{
		{InstrumentID: "inst-aapl", Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Currency: "USD", CurrentPrice: d("178.72")},
	}
	return catalog.New(instruments, nil, nil, nil, nil)
}

// scriptedSink returns a fixed verdict and records the order it saw.
type scriptedSink struct {
	accepted bool
	reason   string
	err      error
	seen     *domain.TradeOrder
}

func (s *scriptedSink) SubmitOrder(_ context.Context, o *domain.TradeOrder) (bool, string, error) {
	s.seen = o
	return s.accepted, s.reason, s.err
}

func testDraft() *domain.TradeOrder {
	o := domain.NewDraftOrder(domain.OrderTypeBuy)
	o.InstrumentID = "inst-aapl"
	o.ExecutionType = domain.ExecutionMarket
	o.TimeInForce = domain.TimeInForceDay
	o.Quantity = d("100")
	return &o
}

func newTestService(sink ExecutionSink) (*OrderService, *store.OrderStore, *engine.ExpirySweeper) {
	orderStore := store.NewOrderStore()
	sweeper := engine.NewExpirySweeper(time.Minute, orderStore)
	return NewOrderService(testCatalogs(), orderStore, sweeper, sink, nil), orderStore, sweeper
}

func TestEffectivePrice(t *testing.T) {
	instrument := domain.Instrument{CurrentPrice: d("178.72")}

	market := domain.NewDraftOrder(domain.OrderTypeBuy)
	market.ExecutionType = domain.ExecutionMarket
	market.Price = d("150") // stale user input, must be ignored
	if got := EffectivePrice(&market, instrument); !got.Equal(d("178.72")) {
		t.Errorf("market order: got %s, want reference price 178.72", got)
	}

	limit := domain.NewDraftOrder(domain.OrderTypeBuy)
	limit.ExecutionType = domain.ExecutionLimit
	limit.Price = d("175.50")
	if got := EffectivePrice(&limit, instrument); !got.Equal(d("175.50")) {
		t.Errorf("limit order: got %s, want draft price 175.50", got)
	}
}

func TestEstimatedFees(t *testing.T) {
	tests := []struct {
		total string
		want  string
	}{
		{"17872", "44.68"},    // 25 bp
		{"10000", "25"},       // 25 bp, no rounding needed
		{"12345.67", "30.86"}, // 30.864175 rounds to the cent
		{"200", "1"},          // 0.50 below the floor
		{"0", "1"},            // floor applies to zero as well
	}
	for _, tt := range tests {
		got := EstimatedFees(d(tt.total), "USD")
		if !got.Equal(d(tt.want)) {
			t.Errorf("EstimatedFees(%s) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestSubmit_AcceptedOrderIsStored(t *testing.T) {
	sink := &scriptedSink{accepted: true}
	svc, orderStore, sweeper := newTestService(sink)

	order, err := svc.Submit(context.Background(), testDraft())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if order.OrderID == "" {
		t.Error("expected a generated order id")
	}
	if order.Status != domain.OrderStatusAccepted {
		t.Errorf("got status %q, want accepted", order.Status)
	}
	if order.SubmittedAt.IsZero() {
		t.Error("expected a submission timestamp")
	}
	if !order.EffectivePrice.Equal(d("178.72")) {
		t.Errorf("got effective price %s, want 178.72", order.EffectivePrice)
	}
	if !order.TotalAmount.Equal(d("17872")) {
		t.Errorf("got total amount %s, want 17872", order.TotalAmount)
	}
	if !order.EstimatedFees.Equal(d("44.68")) {
		t.Errorf("got fees %s, want 44.68", order.EstimatedFees)
	}
	if order.Currency != "USD" {
		t.Errorf("got currency %q, want USD", order.Currency)
	}

	stored, err := orderStore.Get(order.OrderID)
	if err != nil {
		t.Fatalf("accepted order missing from store: %v", err)
	}
	if stored.OrderID != order.OrderID {
		t.Error("stored order id mismatch")
	}

	// Day order registers with the sweeper.
	if got := sweeper.ActiveCount(); got != 1 {
		t.Errorf("got %d tracked orders, want 1", got)
	}
}

func TestSubmit_RejectionLeavesNoTrace(t *testing.T) {
	sink := &scriptedSink{accepted: false, reason: "insufficient margin"}
	svc, orderStore, sweeper := newTestService(sink)

	_, err := svc.Submit(context.Background(), testDraft())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("got %v, want SubmissionError", err)
	}
	if submissionErr.Reason != "insufficient margin" {
		t.Errorf("got reason %q, want the sink's reason", submissionErr.Reason)
	}
	if got := len(orderStore.ListRecent(10)); got != 0 {
		t.Errorf("rejected order leaked into the blotter: %d entries", got)
	}
	if got := sweeper.ActiveCount(); got != 0 {
		t.Errorf("rejected order leaked into the sweeper: %d entries", got)
	}
}

func TestSubmit_SinkErrorWraps(t *testing.T) {
	cause := errors.New("connection refused")
	sink := &scriptedSink{err: cause}
	svc, _, _ := newTestService(sink)

	_, err := svc.Submit(context.Background(), testDraft())
	var submissionErr *domain.SubmissionError
	if !errors.As(err, &submissionErr) {
		t.Fatalf("got %v, want SubmissionError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("SubmissionError must wrap the sink error")
	}
}

func TestSubmit_UnknownInstrument(t *testing.T) {
	svc, _, _ := newTestService(&scriptedSink{accepted: true})
	draft := testDraft()
	draft.InstrumentID = "inst-nope"

	_, err := svc.Submit(context.Background(), draft)
	var integrityErr *domain.IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("got %v, want IntegrityError", err)
	}
}

func TestSubmit_SinkSeesDerivedFields(t *testing.T) {
	sink := &scriptedSink{accepted: true}
	svc, _, _ := newTestService(sink)
	draft := testDraft()
	draft.Leverage = d("2")

	if _, err := svc.Submit(context.Background(), draft); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if sink.seen == nil {
		t.Fatal("sink was never called")
	}
	if !sink.seen.TotalAmount.Equal(d("35744")) {
		t.Errorf("sink saw total %s, want 35744 (leverage applied)", sink.seen.TotalAmount)
	}
}

func TestListOrders_LimitClamping(t *testing.T) {
	svc, _, _ := newTestService(&scriptedSink{accepted: true})

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(context.Background(), testDraft()); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}
	if got := len(svc.ListOrders(2)); got != 2 {
		t.Errorf("ListOrders(2) returned %d", got)
	}
	if got := len(svc.ListOrders(0)); got != 3 {
		t.Errorf("ListOrders(0) must fall back to the default limit, returned %d", got)
	}
	if got := len(svc.ListOrders(500)); got != 3 {
		t.Errorf("ListOrders(500) must clamp, returned %d", got)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _, _ := newTestService(&scriptedSink{accepted: true})
	if _, err := svc.GetOrder("ord-nope"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("got %v, want ErrOrderNotFound", err)
	}
}
