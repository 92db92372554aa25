package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderHandler serves the submitted-order blotter.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type instrumentAllocationResponse struct {
	PortfolioID string          `json:"portfolio_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type fundingAllocationResponse struct {
	SourceID   string          `json:"source_id"`
	SourceType string          `json:"source_type"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

type depositAllocationResponse struct {
	DestinationID   string           `json:"destination_id"`
	DestinationType string           `json:"destination_type"`
	Quantity        *decimal.Decimal `json:"quantity,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Currency        string           `json:"currency"`
}

// orderResponse is the wire shape of a draft or submitted order.
type orderResponse struct {
	OrderID        string                         `json:"order_id,omitempty"`
	Type           string                         `json:"type"`
	InstrumentID   string                         `json:"instrument_id,omitempty"`
	Quantity       decimal.Decimal                `json:"quantity"`
	Price          decimal.Decimal                `json:"price"`
	ExecutionType  string                         `json:"execution_type,omitempty"`
	TimeInForce    string                         `json:"time_in_force,omitempty"`
	GtdDate        *string                        `json:"gtd_date,omitempty"`
	Leverage       decimal.Decimal                `json:"leverage"`
	BrokerID       *string                        `json:"broker_id"`
	Instrument     []instrumentAllocationResponse `json:"instrument_allocations"`
	Funding        []fundingAllocationResponse    `json:"funding_allocations"`
	Deposits       []depositAllocationResponse    `json:"deposit_allocations"`
	EffectivePrice decimal.Decimal                `json:"effective_price"`
	TotalAmount    decimal.Decimal                `json:"total_amount"`
	EstimatedFees  decimal.Decimal                `json:"estimated_fees"`
	Currency       string                         `json:"currency,omitempty"`
	Status         string                         `json:"status,omitempty"`
	SubmittedAt    *string                        `json:"submitted_at,omitempty"`
	ExpiredAt      *string                        `json:"expired_at,omitempty"`
}

func buildOrderResponse(o *domain.TradeOrder) orderResponse {
	resp := orderResponse{
		OrderID:        o.OrderID,
		Type:           string(o.Type),
		InstrumentID:   o.InstrumentID,
		Quantity:       o.Quantity,
		Price:          o.Price,
		ExecutionType:  string(o.ExecutionType),
		TimeInForce:    string(o.TimeInForce),
		Leverage:       o.Leverage,
		BrokerID:       o.BrokerID,
		Instrument:     make([]instrumentAllocationResponse, len(o.InstrumentAllocations)),
		Funding:        make([]fundingAllocationResponse, len(o.FundingAllocations)),
		Deposits:       make([]depositAllocationResponse, len(o.DepositAllocations)),
		EffectivePrice: o.EffectivePrice,
		TotalAmount:    o.TotalAmount,
		EstimatedFees:  o.EstimatedFees,
		Currency:       o.Currency,
		Status:         string(o.Status),
	}
	if o.GtdDate != nil {
		s := o.GtdDate.UTC().Format(time.RFC3339)
		resp.GtdDate = &s
	}
	if !o.SubmittedAt.IsZero() {
		s := o.SubmittedAt.UTC().Format(time.RFC3339)
		resp.SubmittedAt = &s
	}
	if o.ExpiredAt != nil {
		s := o.ExpiredAt.UTC().Format(time.RFC3339)
		resp.ExpiredAt = &s
	}
	for i, a := range o.InstrumentAllocations {
		resp.Instrument[i] = instrumentAllocationResponse{PortfolioID: a.PortfolioID, Quantity: a.Quantity}
	}
	for i, a := range o.FundingAllocations {
		resp.Funding[i] = fundingAllocationResponse{
			SourceID:   a.SourceID,
			SourceType: string(a.SourceType),
			Amount:     a.Amount,
			Currency:   a.Currency,
		}
	}
	for i, a := range o.DepositAllocations {
		resp.Deposits[i] = depositAllocationResponse{
			DestinationID:   a.DestinationID,
			DestinationType: string(a.DestinationType),
			Quantity:        a.Quantity,
			Amount:          a.Amount,
			Currency:        a.Currency,
		}
	}
	return resp
}

// ListOrders handles GET /orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	orders := h.orderSvc.ListOrders(limit)
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = buildOrderResponse(o)
	}
	WriteJSON(w, http.StatusOK, out)
}

// GetOrder handles GET /orders/{order_id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orderSvc.GetOrder(orderID)
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}
