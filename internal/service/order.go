package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/erivas/wealthdesk/internal/catalog"
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/engine"
	"github.com/erivas/wealthdesk/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee policy: 25 basis points of the total amount, floor of 1.00 in the
// order currency.
var (
	feeRate    = decimal.RequireFromString("0.0025")
	minimumFee = decimal.RequireFromString("1.00")
)

// OrderService assembles the final order record from a validated draft,
// computes derived fields, hands the record to the execution sink and
// books accepted orders into the blotter.
type OrderService struct {
	cats       *catalog.Catalogs
	orderStore *store.OrderStore
	sweeper    *engine.ExpirySweeper
	sink       ExecutionSink
	logger     *slog.Logger
}

// NewOrderService creates an OrderService with the given dependencies.
func NewOrderService(
	cats *catalog.Catalogs,
	orderStore *store.OrderStore,
	sweeper *engine.ExpirySweeper,
	sink ExecutionSink,
	logger *slog.Logger,
) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		cats:       cats,
		orderStore: orderStore,
		sweeper:    sweeper,
		sink:       sink,
		logger:     logger,
	}
}

// EffectivePrice is the price an order economically executes at: the
// instrument's reference price for market orders, the draft price for
// everything else.
func EffectivePrice(draft *domain.TradeOrder, instrument domain.Instrument) decimal.Decimal {
	if draft.ExecutionType == domain.ExecutionMarket {
		return instrument.CurrentPrice
	}
	return draft.Price
}

// EstimatedFees applies the fee policy to a total amount, rounded to the
// currency's minor unit.
func EstimatedFees(totalAmount decimal.Decimal, currency string) decimal.Decimal {
	fee := totalAmount.Mul(feeRate)
	if fee.LessThan(minimumFee) {
		fee = minimumFee
	}
	return domain.RoundAmount(fee, currency)
}

// Submit finalizes the draft into an immutable record, sends it to the
// execution sink, and stores it on acceptance. Any rejection or sink
// error comes back as a SubmissionError and leaves no trace in the
// blotter; the caller keeps its draft for retry.
func (s *OrderService) Submit(ctx context.Context, draft *domain.TradeOrder) (*domain.TradeOrder, error) {
	instrument, err := s.cats.Instruments.Get(draft.InstrumentID)
	if err != nil {
		return nil, &domain.IntegrityError{Message: "draft references instrument " + draft.InstrumentID}
	}

	order := draft.Clone()
	order.OrderID = uuid.NewString()
	order.SubmittedAt = time.Now().UTC()
	order.Status = domain.OrderStatusAccepted
	order.Currency = instrument.Currency
	order.EffectivePrice = EffectivePrice(draft, instrument)
	order.TotalAmount = order.Quantity.Mul(order.EffectivePrice).Mul(order.Leverage)
	order.EstimatedFees = EstimatedFees(order.TotalAmount, order.Currency)

	accepted, reason, err := s.sink.SubmitOrder(ctx, &order)
	if err != nil {
		s.logger.Error("execution sink error",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
		return nil, &domain.SubmissionError{Reason: "execution sink unreachable", Err: err}
	}
	if !accepted {
		s.logger.Warn("order rejected by execution sink",
			slog.String("order_id", order.OrderID),
			slog.String("reason", reason),
		)
		return nil, &domain.SubmissionError{Reason: reason}
	}

	s.orderStore.Insert(&order)
	if s.sweeper != nil {
		s.sweeper.Add(&order)
	}
	s.logger.Info("order accepted",
		slog.String("order_id", order.OrderID),
		slog.String("type", string(order.Type)),
		slog.String("instrument_id", order.InstrumentID),
		slog.String("total_amount", order.TotalAmount.String()),
	)
	return &order, nil
}

// GetOrder retrieves a submitted order by id.
func (s *OrderService) GetOrder(id string) (*domain.TradeOrder, error) {
	return s.orderStore.Get(id)
}

// ListOrders returns up to limit submitted orders, newest first.
func (s *OrderService) ListOrders(limit int) []*domain.TradeOrder {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.orderStore.ListRecent(limit)
}
