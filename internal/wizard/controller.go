package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erivas/wealthdesk/internal/catalog"
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Submitter turns a fully validated draft into an accepted order record
// via the execution sink. Implemented by service.OrderService.
type Submitter interface {
	Submit(ctx context.Context, draft *domain.TradeOrder) (*domain.TradeOrder, error)
}

// Session is the order wizard controller. It owns the step index, the
// draft order and the per-role reconcilers; every other component only
// reads snapshots or returns values for the session to apply. All
// mutation goes through the session mutex, and while a submission is in
// flight every mutation is rejected.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	cats        *catalog.Catalogs
	submitter   Submitter
	step        Step
	draft       domain.TradeOrder
	reconcilers map[Role]*Reconciler
	submitting  bool
	blockReason string
	// pendingRevalidation replaces the original timer debounce: field
	// mutations set it, Revalidate consumes it, and Next/Submit always
	// validate synchronously regardless.
	pendingRevalidation bool
}

// RoleStatus is the read-only view of one reconciler for snapshots.
type RoleStatus struct {
	Role       Role
	Required   decimal.Decimal
	Allocated  decimal.Decimal
	Remaining  decimal.Decimal
	IsComplete bool
	IsExceeded bool
	Selecting  bool
	Committed  map[string]decimal.Decimal
}

// Snapshot is the read-only view of a session.
type Snapshot struct {
	ID                  string
	Step                Step
	Draft               domain.TradeOrder
	CanAdvance          bool
	BlockReason         string
	Submitting          bool
	PendingRevalidation bool
	Roles               []RoleStatus
}

// NewSession creates a wizard session with a fresh draft of the given
// order type, at step 0.
func NewSession(id string, cats *catalog.Catalogs, submitter Submitter, t domain.OrderType) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		cats:      cats,
		submitter: submitter,
	}
	s.resetLocked(t)
	return s
}

// Snapshot returns a deep-copied view of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, reason := CanAdvance(s.step, &s.draft)
	snap := Snapshot{
		ID:                  s.ID,
		Step:                s.step,
		Draft:               s.draft.Clone(),
		CanAdvance:          ok,
		BlockReason:         s.blockReason,
		Submitting:          s.submitting,
		PendingRevalidation: s.pendingRevalidation,
	}
	if !ok && snap.BlockReason == "" {
		snap.BlockReason = reason
	}
	src, dst := RolesFor(s.draft.Type)
	for _, role := range []Role{src, dst} {
		if r, exists := s.reconcilers[role]; exists {
			snap.Roles = append(snap.Roles, RoleStatus{
				Role:       role,
				Required:   r.Required(),
				Allocated:  r.CurrentAllocation(),
				Remaining:  r.Remaining(),
				IsComplete: r.IsComplete(),
				IsExceeded: r.IsExceeded(),
				Selecting:  r.Selecting(),
				Committed:  r.Committed(),
			})
		}
	}
	return snap
}

// Revalidate consumes the pending-revalidation flag, re-runs the current
// step gate and records the blocking reason. Deterministic stand-in for
// the original debounce timer.
func (s *Session) Revalidate() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingRevalidation = false
	ok, reason := CanAdvance(s.step, &s.draft)
	s.blockReason = reason
	return ok, reason
}

func (s *Session) guard() error {
	if s.submitting {
		return domain.ErrSubmissionInFlight
	}
	return nil
}

func (s *Session) markDirty() {
	s.pendingRevalidation = true
	s.blockReason = ""
}

// SelectInstrument sets the draft instrument. Changing the instrument
// invalidates every allocation: sell-side holding bounds and buy-side
// required amounts are instrument-dependent.
func (s *Session) SelectInstrument(instrumentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, err := s.cats.Instruments.Get(instrumentID); err != nil {
		return err
	}
	if s.draft.InstrumentID == instrumentID {
		return nil
	}
	s.draft.InstrumentID = instrumentID
	s.clearAllocationsLocked()
	s.markDirty()
	return nil
}

// SetExecution sets execution type, time in force and the GTD date.
func (s *Session) SetExecution(et domain.ExecutionType, tif domain.TimeInForce, gtdDate *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !domain.ValidExecutionTypes[et] {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown execution type %q", et)}
	}
	if !domain.ValidTimeInForce[tif] {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown time in force %q", tif)}
	}
	if tif != domain.TimeInForceGTD && gtdDate != nil {
		return &domain.ValidationError{Message: "gtd_date is only valid with time in force gtd"}
	}
	s.draft.ExecutionType = et
	s.draft.TimeInForce = tif
	s.draft.GtdDate = gtdDate
	if et == domain.ExecutionMarket {
		s.draft.Price = decimal.Zero
	}
	s.refreshRequiredLocked()
	s.markDirty()
	return nil
}

// SetTerms sets quantity and price. Price is ignored for market orders.
func (s *Session) SetTerms(quantity, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if quantity.Sign() < 0 {
		return &domain.ValidationError{Message: "quantity must not be negative"}
	}
	if price.Sign() < 0 {
		return &domain.ValidationError{Message: "price must not be negative"}
	}
	s.draft.Quantity = quantity
	if s.draft.ExecutionType == domain.ExecutionMarket {
		s.draft.Price = decimal.Zero
	} else {
		s.draft.Price = price
	}
	s.refreshRequiredLocked()
	s.markDirty()
	return nil
}

// SetLeverage sets the leverage multiplier.
func (s *Session) SetLeverage(leverage decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if leverage.LessThan(oneLeverage) {
		return &domain.ValidationError{Message: "leverage must be at least 1"}
	}
	s.draft.Leverage = leverage
	s.markDirty()
	return nil
}

// SetBroker sets the broker. The empty string and the best-execution
// sentinel are both accepted; any other id must exist in the catalog.
func (s *Session) SetBroker(brokerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if brokerID != "" && !s.cats.Brokers.Exists(brokerID) {
		return domain.ErrBrokerNotFound
	}
	s.draft.BrokerID = &brokerID
	s.markDirty()
	return nil
}

// ChangeOrderType switches between buy and sell. All allocation state of
// the previous type is dropped and the new type starts with empty
// arrays; stale records of the wrong shape must never leak.
func (s *Session) ChangeOrderType(t domain.OrderType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !domain.ValidOrderTypes[t] {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown order type %q", t)}
	}
	if s.draft.Type == t {
		return nil
	}
	s.draft.Type = t
	s.clearAllocationsLocked()
	s.markDirty()
	return nil
}

// Next advances the wizard one step if the current step's gate passes.
// Leaving the allocation step additionally hard-checks allocation sums
// and balance bounds. Derived totals are merged into the draft on every
// successful advance.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.pendingRevalidation = false
	if ok, reason := CanAdvance(s.step, &s.draft); !ok {
		s.blockReason = reason
		return &domain.ValidationError{Message: reason}
	}
	if s.step == StepAllocation {
		if err := s.checkAllocationsLocked(); err != nil {
			s.blockReason = err.Error()
			return err
		}
	}
	s.blockReason = ""
	s.mergeDerivedLocked()
	if s.step < LastStep {
		s.step++
	}
	return nil
}

// Previous steps back one step. Going back never re-validates.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if s.step > 0 {
		s.step--
	}
	s.blockReason = ""
	return nil
}

// Reset restores an empty draft of the current order type, clears all
// reconciler state and returns to step 0.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	s.resetLocked(s.draft.Type)
	return nil
}

// Submit re-runs the full invariant set and hands the draft to the
// submitter. A second Submit while one is outstanding is rejected. On
// sink failure the draft and step are preserved for retry; on success
// the session resets to a fresh draft of the same order type.
func (s *Session) Submit(ctx context.Context) (*domain.TradeOrder, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, domain.ErrSubmissionInFlight
	}
	if s.step != StepReview {
		s.mu.Unlock()
		return nil, &domain.ValidationError{Message: "submit is only available from the review step"}
	}
	if err := s.checkInvariantsLocked(); err != nil {
		s.blockReason = err.Error()
		s.mu.Unlock()
		return nil, err
	}
	s.mergeDerivedLocked()
	draft := s.draft.Clone()
	s.submitting = true
	s.mu.Unlock()

	order, err := s.submitter.Submit(ctx, &draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.blockReason = err.Error()
		return nil, err
	}
	s.resetLocked(s.draft.Type)
	return order, nil
}

// --- allocation operations, delegated to the role's reconciler ---

// SetAllocation upserts a committed allocation for a role and republishes
// that role's records on the draft.
func (s *Session) SetAllocation(role Role, accountID string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	if err := r.SetAllocation(accountID, value); err != nil {
		return err
	}
	s.applyRoleLocked(r)
	s.markDirty()
	return nil
}

// BeginSelection opens a picker edit session for a role.
func (s *Session) BeginSelection(role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	r.BeginSelection()
	return nil
}

// ToggleAccount toggles an account in a role's open selection.
func (s *Session) ToggleAccount(role Role, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	return r.ToggleAccount(accountID)
}

// SetTempAllocation sets a free-form value in a role's open selection.
func (s *Session) SetTempAllocation(role Role, accountID string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	return r.SetTempAllocation(accountID, value)
}

// ConfirmSelection commits a role's selection and republishes records.
func (s *Session) ConfirmSelection(role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	r.ConfirmSelection()
	s.applyRoleLocked(r)
	s.markDirty()
	return nil
}

// CancelSelection discards a role's selection; committed state and the
// draft are untouched.
func (s *Session) CancelSelection(role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reconcilerLocked(role)
	if err != nil {
		return err
	}
	r.CancelSelection()
	return nil
}

// --- internal helpers (callers hold s.mu) ---

func (s *Session) resetLocked(t domain.OrderType) {
	s.draft = domain.NewDraftOrder(t)
	s.reconcilers = make(map[Role]*Reconciler)
	s.step = StepInstrument
	s.blockReason = ""
	s.pendingRevalidation = false
}

func (s *Session) clearAllocationsLocked() {
	s.draft.InstrumentAllocations = []domain.InstrumentAllocation{}
	s.draft.FundingAllocations = []domain.FundingAllocation{}
	s.draft.DepositAllocations = []domain.DepositAllocation{}
	s.reconcilers = make(map[Role]*Reconciler)
}

// unitPriceLocked is the price used for quantity↔amount conversion:
// the reference price for market orders, the draft price otherwise
// (falling back to the reference price while unset).
func (s *Session) unitPriceLocked() decimal.Decimal {
	var ref decimal.Decimal
	if in, err := s.cats.Instruments.Get(s.draft.InstrumentID); err == nil {
		ref = in.CurrentPrice
	}
	if s.draft.ExecutionType != domain.ExecutionMarket && s.draft.Price.Sign() > 0 {
		return s.draft.Price
	}
	return ref
}

// requiredForLocked is the role's required total in its natural unit:
// instrument quantity for portfolio roles, quantity × unit price for
// currency roles.
func (s *Session) requiredForLocked(role Role) decimal.Decimal {
	if role.QuantityBased() {
		return s.draft.Quantity
	}
	return s.draft.Quantity.Mul(s.unitPriceLocked())
}

func (s *Session) reconcilerLocked(role Role) (*Reconciler, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if !role.ActiveFor(s.draft.Type) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("role %s does not apply to %s orders", role, s.draft.Type),
		}
	}
	if r, ok := s.reconcilers[role]; ok {
		r.SetRequired(s.requiredForLocked(role))
		return r, nil
	}
	r := NewReconciler(role, s.requiredForLocked(role), s.candidatesLocked(role))
	s.reconcilers[role] = r
	return r, nil
}

// candidatesLocked builds the candidate set for a role from the
// catalogs. Currency-denominated roles are restricted to accounts in
// the instrument's currency; FX conversion is out of scope.
func (s *Session) candidatesLocked(role Role) []Candidate {
	currency := ""
	if in, err := s.cats.Instruments.Get(s.draft.InstrumentID); err == nil {
		currency = in.Currency
	}

	var out []Candidate
	switch role {
	case RoleFundingSource:
		for _, a := range s.cats.Accounts.ListCash() {
			if currency != "" && a.Currency != currency {
				continue
			}
			out = append(out, Candidate{AccountID: a.AccountID, Kind: CandidateCash, Currency: a.Currency, Available: a.Balance})
		}
		for _, f := range s.cats.Accounts.ListCredit() {
			if currency != "" && f.Currency != currency {
				continue
			}
			out = append(out, Candidate{AccountID: f.FacilityID, Kind: CandidateCredit, Currency: f.Currency, Available: f.Available()})
		}

	case RolePortfolioDeposit:
		for _, p := range s.cats.Portfolios.List() {
			out = append(out, Candidate{AccountID: p.PortfolioID, Kind: CandidatePortfolio, Currency: p.Currency, Unbounded: true})
		}

	case RolePortfolioSource:
		for _, p := range s.cats.Portfolios.List() {
			held := p.HoldingQuantity(s.draft.InstrumentID)
			if held.Sign() <= 0 {
				continue
			}
			out = append(out, Candidate{AccountID: p.PortfolioID, Kind: CandidatePortfolio, Currency: p.Currency, Available: held})
		}

	case RoleCashDeposit:
		for _, a := range s.cats.Accounts.ListCash() {
			if currency != "" && a.Currency != currency {
				continue
			}
			out = append(out, Candidate{AccountID: a.AccountID, Kind: CandidateCash, Currency: a.Currency, Unbounded: true})
		}
	}
	return out
}

func (s *Session) refreshRequiredLocked() {
	for role, r := range s.reconcilers {
		r.SetRequired(s.requiredForLocked(role))
	}
}

// applyRoleLocked republishes one role's records onto the draft,
// replacing only that role's slice. The other role's entries are
// disjoint arrays and stay intact.
func (s *Session) applyRoleLocked(r *Reconciler) {
	switch r.Role() {
	case RolePortfolioSource:
		s.draft.InstrumentAllocations = r.InstrumentAllocations()
	case RoleFundingSource:
		s.draft.FundingAllocations = r.FundingAllocations()
	case RolePortfolioDeposit, RoleCashDeposit:
		s.draft.DepositAllocations = r.DepositAllocations()
	}
}

// checkAllocationsLocked hard-checks both active roles: committed sums
// must equal the required totals exactly and no single allocation may
// exceed its account's available bound.
func (s *Session) checkAllocationsLocked() error {
	src, dst := RolesFor(s.draft.Type)
	for _, role := range []Role{src, dst} {
		r, err := s.reconcilerLocked(role)
		if err != nil {
			return err
		}
		required := s.requiredForLocked(role)
		allocated := r.CurrentAllocation()
		if !allocated.Equal(required) {
			return &domain.AllocationMismatchError{
				Role:      string(role),
				Required:  required,
				Allocated: allocated,
			}
		}
		if over := r.OverdrawnAccounts(); len(over) > 0 {
			return &domain.ValidationError{
				Message: fmt.Sprintf("allocation for %s exceeds the account's available balance", over[0]),
			}
		}
	}
	return nil
}

// mergeDerivedLocked recomputes the draft's derived totals.
func (s *Session) mergeDerivedLocked() {
	unit := s.unitPriceLocked()
	s.draft.EffectivePrice = unit
	s.draft.TotalAmount = s.draft.Quantity.Mul(unit).Mul(s.draft.Leverage)
	if in, err := s.cats.Instruments.Get(s.draft.InstrumentID); err == nil {
		s.draft.Currency = in.Currency
	}
}

// checkInvariantsLocked is the defensive pre-submission pass over the
// full invariant set. Every step gate is re-run, the GTD date must be in
// the future, allocation sums and bounds must hold, and every referenced
// account must resolve in the catalogs.
func (s *Session) checkInvariantsLocked() error {
	for step := StepInstrument; step <= StepBroker; step++ {
		if ok, reason := CanAdvance(step, &s.draft); !ok {
			return &domain.ValidationError{Message: reason}
		}
	}
	if s.draft.TimeInForce == domain.TimeInForceGTD &&
		s.draft.GtdDate != nil && !s.draft.GtdDate.After(time.Now()) {
		return &domain.ValidationError{Message: "good-till-date expiry must be in the future"}
	}
	if _, err := s.cats.Instruments.Get(s.draft.InstrumentID); err != nil {
		return &domain.IntegrityError{Message: fmt.Sprintf("instrument %q not in catalog", s.draft.InstrumentID)}
	}
	if err := s.checkAllocationsLocked(); err != nil {
		return err
	}
	return s.checkReferencesLocked()
}

// checkReferencesLocked verifies every allocation references a known
// catalog entry. A failure here is a programming defect, not user error.
func (s *Session) checkReferencesLocked() error {
	for _, a := range s.draft.InstrumentAllocations {
		if _, err := s.cats.Portfolios.Get(a.PortfolioID); err != nil {
			return &domain.IntegrityError{Message: fmt.Sprintf("portfolio %q not in catalog", a.PortfolioID)}
		}
	}
	for _, a := range s.draft.FundingAllocations {
		var err error
		if a.SourceType == domain.FundingSourceCredit {
			_, err = s.cats.Accounts.GetCredit(a.SourceID)
		} else {
			_, err = s.cats.Accounts.GetCash(a.SourceID)
		}
		if err != nil {
			return &domain.IntegrityError{Message: fmt.Sprintf("funding source %q not in catalog", a.SourceID)}
		}
	}
	for _, a := range s.draft.DepositAllocations {
		var err error
		if a.DestinationType == domain.DepositToPortfolio {
			_, err = s.cats.Portfolios.Get(a.DestinationID)
		} else {
			_, err = s.cats.Accounts.GetCash(a.DestinationID)
		}
		if err != nil {
			return &domain.IntegrityError{Message: fmt.Sprintf("deposit destination %q not in catalog", a.DestinationID)}
		}
	}
	return nil
}
