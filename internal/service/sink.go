package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
)

// ExecutionSink is the one IO boundary of the engine: it receives the
// final immutable order record and reports whether the execution
// backend accepted it.
type ExecutionSink interface {
	SubmitOrder(ctx context.Context, order *domain.TradeOrder) (accepted bool, reason string, err error)
}

// HTTPSink posts order records as JSON to a configured execution
// endpoint, treating any 2xx response as acceptance.
type HTTPSink struct {
	url    string
	client *http.Client
}

// NewHTTPSink creates a sink posting to url with the given timeout.
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type sinkPayload struct {
	OrderID       string `json:"order_id"`
	Type          string `json:"type"`
	InstrumentID  string `json:"instrument_id"`
	Quantity      string `json:"quantity"`
	Price         string `json:"price"`
	ExecutionType string `json:"execution_type"`
	TimeInForce   string `json:"time_in_force"`
	Leverage      string `json:"leverage"`
	BrokerID      string `json:"broker_id"`
	TotalAmount   string `json:"total_amount"`
	Currency      string `json:"currency"`
	SubmittedAt   string `json:"submitted_at"`
}

// SubmitOrder posts the order. Network errors surface as errors; non-2xx
// statuses are rejections with the status as the reason.
func (s *HTTPSink) SubmitOrder(ctx context.Context, order *domain.TradeOrder) (bool, string, error) {
	broker := ""
	if order.BrokerID != nil {
		broker = *order.BrokerID
	}
	payload := sinkPayload{
		OrderID:       order.OrderID,
		Type:          string(order.Type),
		InstrumentID:  order.InstrumentID,
		Quantity:      order.Quantity.String(),
		Price:         order.EffectivePrice.String(),
		ExecutionType: string(order.ExecutionType),
		TimeInForce:   string(order.TimeInForce),
		Leverage:      order.Leverage.String(),
		BrokerID:      broker,
		TotalAmount:   order.TotalAmount.String(),
		Currency:      order.Currency,
		SubmittedAt:   order.SubmittedAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Sprintf("execution backend returned %d", resp.StatusCode), nil
	}
	return true, "", nil
}

// AcceptAllSink accepts every order locally. Used when no execution
// endpoint is configured and as the default in tests.
type AcceptAllSink struct{}

// SubmitOrder accepts unconditionally.
func (AcceptAllSink) SubmitOrder(context.Context, *domain.TradeOrder) (bool, string, error) {
	return true, "", nil
}
