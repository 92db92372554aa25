package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/erivas/wealthdesk/internal/domain"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status
// code, error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body as JSON into v, rejecting unknown
// fields. The Content-Type check lives in router middleware.
func ParseJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("request body must be valid JSON")
	}
	return nil
}

// mapDomainError converts engine errors to HTTP responses. Validation
// and allocation mismatches are 422s that keep the wizard where it is;
// a rejection from the execution backend is a 409 the client may retry;
// integrity violations are programming defects and surface as 500s.
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", validationErr.Message)
		return
	}
	var mismatchErr *domain.AllocationMismatchError
	if errors.As(err, &mismatchErr) {
		WriteError(w, http.StatusUnprocessableEntity, "allocation_mismatch", mismatchErr.Error())
		return
	}
	var submissionErr *domain.SubmissionError
	if errors.As(err, &submissionErr) {
		WriteError(w, http.StatusConflict, "submission_failed", submissionErr.Error())
		return
	}
	var integrityErr *domain.IntegrityError
	if errors.As(err, &integrityErr) {
		WriteError(w, http.StatusInternalServerError, "integrity_error", integrityErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrInstrumentNotFound):
		WriteError(w, http.StatusNotFound, "instrument_not_found", err.Error())
	case errors.Is(err, domain.ErrPortfolioNotFound):
		WriteError(w, http.StatusNotFound, "portfolio_not_found", err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, domain.ErrBrokerNotFound):
		WriteError(w, http.StatusNotFound, "broker_not_found", err.Error())
	case errors.Is(err, domain.ErrSubmissionInFlight):
		WriteError(w, http.StatusConflict, "submission_in_flight",
			"a submission is already in progress for this session")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
