package wizard

import (
	"fmt"

	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// CandidateKind identifies the account kind behind a candidate.
type CandidateKind string

const (
	CandidateCash      CandidateKind = "cash"
	CandidateCredit    CandidateKind = "credit"
	CandidatePortfolio CandidateKind = "portfolio"
)

// Candidate is an account eligible to contribute to one allocation role.
// Available is the upper bound the account can supply; Unbounded marks
// pure destinations (a portfolio or cash account can receive any total).
type Candidate struct {
	AccountID string
	Kind      CandidateKind
	Currency  string
	Available decimal.Decimal
	Unbounded bool
}

// Reconciler tracks partial allocations for a single role, reconciling
// them against a required total. Committed allocations are the role's
// source of truth; temp allocations plus the selected set form an edit
// session that only takes effect on ConfirmSelection, so cancelling a
// picker never corrupts committed state.
//
// The reconciler never mutates the order draft. The session controller
// reads the emitted record slices and applies them.
type Reconciler struct {
	role       Role
	required   decimal.Decimal
	candidates map[string]Candidate
	order      []string // candidate ids in catalog order, for stable output

	committed map[string]decimal.Decimal
	temp      map[string]decimal.Decimal
	selected  map[string]bool
	selecting bool
}

// NewReconciler creates a reconciler for one role with the given
// required total and candidate set.
func NewReconciler(role Role, required decimal.Decimal, candidates []Candidate) *Reconciler {
	r := &Reconciler{
		role:       role,
		required:   required,
		candidates: make(map[string]Candidate, len(candidates)),
		order:      make([]string, 0, len(candidates)),
		committed:  make(map[string]decimal.Decimal),
	}
	for _, c := range candidates {
		if _, exists := r.candidates[c.AccountID]; exists {
			continue
		}
		r.candidates[c.AccountID] = c
		r.order = append(r.order, c.AccountID)
	}
	return r
}

// Role returns the role this reconciler manages.
func (r *Reconciler) Role() Role {
	return r.role
}

// SetRequired updates the required total. Committed allocations are kept;
// Remaining simply shifts.
func (r *Reconciler) SetRequired(required decimal.Decimal) {
	r.required = required
}

// Required returns the current required total.
func (r *Reconciler) Required() decimal.Decimal {
	return r.required
}

func (r *Reconciler) candidate(id string) (Candidate, error) {
	c, ok := r.candidates[id]
	if !ok {
		return Candidate{}, &domain.IntegrityError{
			Message: fmt.Sprintf("account %q is not a candidate for role %s", id, r.role),
		}
	}
	return c, nil
}

// SetAllocation upserts a committed allocation. A zero or negative value
// removes the entry.
func (r *Reconciler) SetAllocation(accountID string, value decimal.Decimal) error {
	if _, err := r.candidate(accountID); err != nil {
		return err
	}
	if value.Sign() <= 0 {
		delete(r.committed, accountID)
		return nil
	}
	r.committed[accountID] = value
	return nil
}

// CurrentAllocation returns the sum of all committed values.
func (r *Reconciler) CurrentAllocation() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range r.committed {
		sum = sum.Add(v)
	}
	return sum
}

// Remaining returns required − committed. Negative means over-allocated,
// positive under-allocated.
func (r *Reconciler) Remaining() decimal.Decimal {
	return r.required.Sub(r.CurrentAllocation())
}

// Committed returns a copy of the committed allocation map.
func (r *Reconciler) Committed() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.committed))
	for id, v := range r.committed {
		out[id] = v
	}
	return out
}

// BeginSelection opens an edit session seeded from committed state.
func (r *Reconciler) BeginSelection() {
	r.temp = make(map[string]decimal.Decimal, len(r.committed))
	r.selected = make(map[string]bool, len(r.committed))
	for id, v := range r.committed {
		r.temp[id] = v
		r.selected[id] = true
	}
	r.selecting = true
}

// Selecting reports whether an edit session is open.
func (r *Reconciler) Selecting() bool {
	return r.selecting
}

// ToggleAccount adds or removes an account from the selection. On first
// add it seeds a suggested value of min(available, max(remaining, 0)),
// never more than the account can supply and never more than what is
// left to allocate.
func (r *Reconciler) ToggleAccount(accountID string) error {
	c, err := r.candidate(accountID)
	if err != nil {
		return err
	}
	if !r.selecting {
		r.BeginSelection()
	}
	if r.selected[accountID] {
		delete(r.selected, accountID)
		delete(r.temp, accountID)
		return nil
	}
	r.selected[accountID] = true
	if _, has := r.temp[accountID]; !has {
		suggested := r.remainingTemp()
		if suggested.Sign() < 0 {
			suggested = decimal.Zero
		}
		if !c.Unbounded && c.Available.LessThan(suggested) {
			suggested = c.Available
		}
		r.temp[accountID] = suggested
	}
	return nil
}

// SetTempAllocation sets a free-form value during an edit session.
func (r *Reconciler) SetTempAllocation(accountID string, value decimal.Decimal) error {
	if _, err := r.candidate(accountID); err != nil {
		return err
	}
	if !r.selecting {
		r.BeginSelection()
	}
	r.selected[accountID] = true
	if value.Sign() < 0 {
		value = decimal.Zero
	}
	r.temp[accountID] = value
	return nil
}

// ConfirmSelection commits the temp allocations filtered to the selected
// set, discarding ids removed from the selection, and closes the session.
func (r *Reconciler) ConfirmSelection() {
	if !r.selecting {
		return
	}
	next := make(map[string]decimal.Decimal, len(r.selected))
	for id := range r.selected {
		v, ok := r.temp[id]
		if !ok || v.Sign() <= 0 {
			continue
		}
		next[id] = v
	}
	r.committed = next
	r.closeSelection()
}

// CancelSelection discards the edit session without touching committed
// state.
func (r *Reconciler) CancelSelection() {
	r.closeSelection()
}

func (r *Reconciler) closeSelection() {
	r.temp = nil
	r.selected = nil
	r.selecting = false
}

// remainingTemp is required minus the pending (temp) sum while an edit
// session is open, else minus the committed sum.
func (r *Reconciler) remainingTemp() decimal.Decimal {
	return r.required.Sub(r.pendingSum())
}

func (r *Reconciler) pendingSum() decimal.Decimal {
	if !r.selecting {
		return r.CurrentAllocation()
	}
	sum := decimal.Zero
	for id := range r.selected {
		if v, ok := r.temp[id]; ok {
			sum = sum.Add(v)
		}
	}
	return sum
}

// IsComplete reports whether the pending sum equals the required total
// exactly.
func (r *Reconciler) IsComplete() bool {
	return r.pendingSum().Equal(r.required)
}

// IsExceeded reports whether the pending sum is over the required total.
func (r *Reconciler) IsExceeded() bool {
	return r.pendingSum().GreaterThan(r.required)
}

// OverdrawnAccounts returns the ids of committed allocations larger than
// their account's available bound, in candidate order.
func (r *Reconciler) OverdrawnAccounts() []string {
	var out []string
	for _, id := range r.order {
		c := r.candidates[id]
		if c.Unbounded {
			continue
		}
		if v, ok := r.committed[id]; ok && v.GreaterThan(c.Available) {
			out = append(out, id)
		}
	}
	return out
}

// InstrumentAllocations emits the committed state as sell-side source
// records. Only meaningful for RolePortfolioSource.
func (r *Reconciler) InstrumentAllocations() []domain.InstrumentAllocation {
	out := make([]domain.InstrumentAllocation, 0, len(r.committed))
	for _, id := range r.order {
		v, ok := r.committed[id]
		if !ok {
			continue
		}
		out = append(out, domain.InstrumentAllocation{PortfolioID: id, Quantity: v})
	}
	return out
}

// FundingAllocations emits the committed state as buy-side funding
// records. Only meaningful for RoleFundingSource.
func (r *Reconciler) FundingAllocations() []domain.FundingAllocation {
	out := make([]domain.FundingAllocation, 0, len(r.committed))
	for _, id := range r.order {
		v, ok := r.committed[id]
		if !ok {
			continue
		}
		c := r.candidates[id]
		st := domain.FundingSourceCash
		if c.Kind == CandidateCredit {
			st = domain.FundingSourceCredit
		}
		out = append(out, domain.FundingAllocation{
			SourceID:   id,
			SourceType: st,
			Amount:     v,
			Currency:   c.Currency,
		})
	}
	return out
}

// DepositAllocations emits the committed state as destination records.
// Portfolio destinations carry a quantity, cash destinations an amount.
func (r *Reconciler) DepositAllocations() []domain.DepositAllocation {
	out := make([]domain.DepositAllocation, 0, len(r.committed))
	for _, id := range r.order {
		v, ok := r.committed[id]
		if !ok {
			continue
		}
		c := r.candidates[id]
		rec := domain.DepositAllocation{DestinationID: id, Currency: c.Currency}
		if r.role == RolePortfolioDeposit {
			q := v
			rec.DestinationType = domain.DepositToPortfolio
			rec.Quantity = &q
		} else {
			a := v
			rec.DestinationType = domain.DepositToCash
			rec.Amount = &a
		}
		out = append(out, rec)
	}
	return out
}
