package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInstrumentNotFound = errors.New("instrument_not_found")
	ErrPortfolioNotFound  = errors.New("portfolio_not_found")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrBrokerNotFound     = errors.New("broker_not_found")
	ErrOrderNotFound      = errors.New("order_not_found")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSubmissionInFlight = errors.New("submission_in_flight")
)

// ValidationError is a step-gate or field validation failure. It blocks
// forward progress but is never fatal; the wizard stays on its step.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AllocationMismatchError reports that a role's committed allocations do
// not sum to the required total at the moment next/submit is attempted.
type AllocationMismatchError struct {
	Role      string
	Required  decimal.Decimal
	Allocated decimal.Decimal
}

func (e *AllocationMismatchError) Error() string {
	return fmt.Sprintf("%s allocations sum to %s, required %s",
		e.Role, e.Allocated.String(), e.Required.String())
}

// SubmissionError reports that the execution sink rejected or errored.
// The draft is preserved so the user can retry.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("submission failed: %s", e.Reason)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IntegrityError indicates a programming defect, such as an allocation
// referencing an account id absent from the catalog. It should never
// occur and fails loudly when it does.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Message
}
