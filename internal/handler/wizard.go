package handler

import (
	"net/http"
	"time"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/store"
	"github.com/erivas/wealthdesk/internal/wizard"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WizardHandler drives wizard sessions over HTTP. Sessions live in the
// session store; every mutating endpoint resolves the session and calls
// the corresponding controller operation.
type WizardHandler struct {
	sessions   *store.SessionStore
	newSession func(id string, t domain.OrderType) *wizard.Session
}

// NewWizardHandler creates a new WizardHandler. newSession is the
// session factory, closing over the catalogs and the submitter.
func NewWizardHandler(sessions *store.SessionStore, newSession func(id string, t domain.OrderType) *wizard.Session) *WizardHandler {
	return &WizardHandler{sessions: sessions, newSession: newSession}
}

type createSessionRequest struct {
	OrderType string `json:"order_type"`
}

type roleStatusResponse struct {
	Role       string                     `json:"role"`
	Required   decimal.Decimal            `json:"required"`
	Allocated  decimal.Decimal            `json:"allocated"`
	Remaining  decimal.Decimal            `json:"remaining"`
	IsComplete bool                       `json:"is_complete"`
	IsExceeded bool                       `json:"is_exceeded"`
	Selecting  bool                       `json:"selecting"`
	Committed  map[string]decimal.Decimal `json:"committed"`
}

type sessionResponse struct {
	SessionID           string               `json:"session_id"`
	Step                int                  `json:"step"`
	StepName            string               `json:"step_name"`
	CanAdvance          bool                 `json:"can_advance"`
	BlockReason         string               `json:"block_reason"`
	Submitting          bool                 `json:"submitting"`
	PendingRevalidation bool                 `json:"pending_revalidation"`
	Draft               orderResponse        `json:"draft"`
	Roles               []roleStatusResponse `json:"roles"`
}

func buildSessionResponse(snap wizard.Snapshot) sessionResponse {
	resp := sessionResponse{
		SessionID:           snap.ID,
		Step:                int(snap.Step),
		StepName:            snap.Step.String(),
		CanAdvance:          snap.CanAdvance,
		BlockReason:         snap.BlockReason,
		Submitting:          snap.Submitting,
		PendingRevalidation: snap.PendingRevalidation,
		Draft:               buildOrderResponse(&snap.Draft),
		Roles:               []roleStatusResponse{},
	}
	for _, rs := range snap.Roles {
		resp.Roles = append(resp.Roles, roleStatusResponse{
			Role:       string(rs.Role),
			Required:   rs.Required,
			Allocated:  rs.Allocated,
			Remaining:  rs.Remaining,
			IsComplete: rs.IsComplete,
			IsExceeded: rs.IsExceeded,
			Selecting:  rs.Selecting,
			Committed:  rs.Committed,
		})
	}
	return resp
}

// CreateSession handles POST /wizard.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	// ContentLength is -1 for chunked bodies; only a known-empty body
	// skips parsing.
	if r.ContentLength != 0 {
		if err := ParseJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}
	t := domain.OrderType(req.OrderType)
	if req.OrderType == "" {
		t = domain.OrderTypeBuy
	}
	if !domain.ValidOrderTypes[t] {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error",
			"order_type must be 'buy' or 'sell'")
		return
	}

	sess := h.newSession(uuid.NewString(), t)
	h.sessions.Put(sess)
	WriteJSON(w, http.StatusCreated, buildSessionResponse(sess.Snapshot()))
}

// GetSession handles GET /wizard/{session_id}.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSessionResponse(sess.Snapshot()))
}

// DeleteSession handles DELETE /wizard/{session_id}.
func (h *WizardHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "session_id"))
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the session or writes a 404, returning nil on miss.
func (h *WizardHandler) session(w http.ResponseWriter, r *http.Request) *wizard.Session {
	sess, err := h.sessions.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		mapDomainError(w, err)
		return nil
	}
	return sess
}

// respond writes the session snapshot, or maps err when the operation
// failed.
func (h *WizardHandler) respond(w http.ResponseWriter, sess *wizard.Session, err error) {
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSessionResponse(sess.Snapshot()))
}

// Next handles POST /wizard/{session_id}/next.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	if sess := h.session(w, r); sess != nil {
		h.respond(w, sess, sess.Next())
	}
}

// Previous handles POST /wizard/{session_id}/previous.
func (h *WizardHandler) Previous(w http.ResponseWriter, r *http.Request) {
	if sess := h.session(w, r); sess != nil {
		h.respond(w, sess, sess.Previous())
	}
}

// Reset handles POST /wizard/{session_id}/reset.
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if sess := h.session(w, r); sess != nil {
		h.respond(w, sess, sess.Reset())
	}
}

// Revalidate handles POST /wizard/{session_id}/revalidate.
func (h *WizardHandler) Revalidate(w http.ResponseWriter, r *http.Request) {
	if sess := h.session(w, r); sess != nil {
		sess.Revalidate()
		h.respond(w, sess, nil)
	}
}

type orderTypeRequest struct {
	OrderType string `json:"order_type"`
}

// SetOrderType handles PUT /wizard/{session_id}/order-type.
func (h *WizardHandler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req orderTypeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.ChangeOrderType(domain.OrderType(req.OrderType)))
}

type instrumentRequest struct {
	InstrumentID string `json:"instrument_id"`
}

// SetInstrument handles PUT /wizard/{session_id}/instrument.
func (h *WizardHandler) SetInstrument(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req instrumentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SelectInstrument(req.InstrumentID))
}

type executionRequest struct {
	ExecutionType string  `json:"execution_type"`
	TimeInForce   string  `json:"time_in_force"`
	GtdDate       *string `json:"gtd_date"`
}

// SetExecution handles PUT /wizard/{session_id}/execution.
func (h *WizardHandler) SetExecution(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req executionRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	var gtd *time.Time
	if req.GtdDate != nil {
		t, err := time.Parse(time.RFC3339, *req.GtdDate)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, "validation_error",
				"gtd_date must be a valid RFC 3339 timestamp")
			return
		}
		gtd = &t
	}
	h.respond(w, sess, sess.SetExecution(
		domain.ExecutionType(req.ExecutionType),
		domain.TimeInForce(req.TimeInForce),
		gtd,
	))
}

type termsRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SetTerms handles PUT /wizard/{session_id}/terms.
func (h *WizardHandler) SetTerms(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req termsRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SetTerms(req.Quantity, req.Price))
}

type leverageRequest struct {
	Leverage decimal.Decimal `json:"leverage"`
}

// SetLeverage handles PUT /wizard/{session_id}/leverage.
func (h *WizardHandler) SetLeverage(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req leverageRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SetLeverage(req.Leverage))
}

type brokerRequest struct {
	BrokerID string `json:"broker_id"`
}

// SetBroker handles PUT /wizard/{session_id}/broker.
func (h *WizardHandler) SetBroker(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req brokerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SetBroker(req.BrokerID))
}

func parseRole(w http.ResponseWriter, r *http.Request) (wizard.Role, bool) {
	role, ok := wizard.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error",
			"role must be one of: funding_sources, portfolio_deposits, portfolio_sources, cash_deposits")
		return "", false
	}
	return role, true
}

type allocationRequest struct {
	AccountID string          `json:"account_id"`
	Value     decimal.Decimal `json:"value"`
}

// SetAllocation handles PUT /wizard/{session_id}/allocations/{role}.
func (h *WizardHandler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	var req allocationRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SetAllocation(role, req.AccountID, req.Value))
}

// BeginSelection handles POST /wizard/{session_id}/allocations/{role}/selection.
func (h *WizardHandler) BeginSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.BeginSelection(role))
}

// ToggleAccount handles POST /wizard/{session_id}/allocations/{role}/selection/{account_id}/toggle.
func (h *WizardHandler) ToggleAccount(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.ToggleAccount(role, chi.URLParam(r, "account_id")))
}

type tempAllocationRequest struct {
	Value decimal.Decimal `json:"value"`
}

// SetTempAllocation handles PUT /wizard/{session_id}/allocations/{role}/selection/{account_id}.
func (h *WizardHandler) SetTempAllocation(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	var req tempAllocationRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.respond(w, sess, sess.SetTempAllocation(role, chi.URLParam(r, "account_id"), req.Value))
}

// ConfirmSelection handles POST /wizard/{session_id}/allocations/{role}/selection/confirm.
func (h *WizardHandler) ConfirmSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.ConfirmSelection(role))
}

// CancelSelection handles DELETE /wizard/{session_id}/allocations/{role}/selection.
func (h *WizardHandler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	role, ok := parseRole(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.CancelSelection(role))
}

// Submit handles POST /wizard/{session_id}/submit.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	order, err := sess.Submit(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}
