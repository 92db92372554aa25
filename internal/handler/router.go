package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and Content-Type validation middleware.
func NewRouter(
	catalogH *CatalogHandler,
	wizardH *WizardHandler,
	orderH *OrderHandler,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Reference catalogs.
	r.Get("/instruments", catalogH.ListInstruments)
	r.Get("/portfolios", catalogH.ListPortfolios)
	r.Get("/cash-accounts", catalogH.ListCashAccounts)
	r.Get("/credit-facilities", catalogH.ListCreditFacilities)
	r.Get("/brokers", catalogH.ListBrokers)

	// Wizard sessions.
	r.Post("/wizard", wizardH.CreateSession)
	r.Route("/wizard/{session_id}", func(r chi.Router) {
		r.Get("/", wizardH.GetSession)
		r.Delete("/", wizardH.DeleteSession)
		r.Post("/next", wizardH.Next)
		r.Post("/previous", wizardH.Previous)
		r.Post("/reset", wizardH.Reset)
		r.Post("/revalidate", wizardH.Revalidate)
		r.Post("/submit", wizardH.Submit)
		r.Put("/order-type", wizardH.SetOrderType)
		r.Put("/instrument", wizardH.SetInstrument)
		r.Put("/execution", wizardH.SetExecution)
		r.Put("/terms", wizardH.SetTerms)
		r.Put("/leverage", wizardH.SetLeverage)
		r.Put("/broker", wizardH.SetBroker)
		r.Route("/allocations/{role}", func(r chi.Router) {
			r.Put("/", wizardH.SetAllocation)
			r.Post("/selection", wizardH.BeginSelection)
			r.Delete("/selection", wizardH.CancelSelection)
			r.Post("/selection/confirm", wizardH.ConfirmSelection)
			r.Put("/selection/{account_id}", wizardH.SetTempAllocation)
			r.Post("/selection/{account_id}/toggle", wizardH.ToggleAccount)
		})
	})

	// Submitted-order blotter.
	r.Get("/orders", orderH.ListOrders)
	r.Get("/orders/{order_id}", orderH.GetOrder)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST,
// PUT, and PATCH requests carrying a body. Bodyless POSTs (step
// transitions, toggles) are exempt.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasBody := r.ContentLength != 0 // -1 means chunked, body present
		mutating := r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
		if mutating && hasBody {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
