package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
)

func sinkOrder() *domain.TradeOrder {
	o := domain.NewDraftOrder(domain.OrderTypeBuy)
	o.OrderID = "ord-1"
	o.InstrumentID = "inst-aapl"
	o.ExecutionType = domain.ExecutionMarket
	o.TimeInForce = domain.TimeInForceDay
	o.Quantity = d("100")
	o.EffectivePrice = d("178.72")
	o.TotalAmount = d("17872")
	o.Currency = "USD"
	o.SubmittedAt = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	return &o
}

func TestHTTPSink_Accepts2xx(t *testing.T) {
	var got sinkPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("got method %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("got content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("payload decode failed: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, time.Second)
	accepted, reason, err := sink.SubmitOrder(context.Background(), sinkOrder())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !accepted || reason != "" {
		t.Errorf("got accepted=%v reason=%q, want acceptance", accepted, reason)
	}
	if got.OrderID != "ord-1" || got.Quantity != "100" || got.TotalAmount != "17872" {
		t.Errorf("unexpected payload: %+v", got)
	}
	if got.SubmittedAt != "2026-03-10T14:30:00Z" {
		t.Errorf("got submitted_at %q, want RFC3339 UTC", got.SubmittedAt)
	}
}

func TestHTTPSink_RejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, time.Second)
	accepted, reason, err := sink.SubmitOrder(context.Background(), sinkOrder())
	if err != nil {
		t.Fatalf("non-2xx must be a rejection, not an error: %v", err)
	}
	if accepted {
		t.Error("422 response must not be accepted")
	}
	if reason == "" {
		t.Error("rejection must carry a reason")
	}
}

func TestHTTPSink_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	sink := NewHTTPSink(srv.URL, time.Second)
	_, _, err := sink.SubmitOrder(context.Background(), sinkOrder())
	if err == nil {
		t.Fatal("expected an error for an unreachable endpoint")
	}
}
