package handler

import (
	"net/http"

	"github.com/erivas/wealthdesk/internal/catalog"
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves the read-only reference catalogs.
type CatalogHandler struct {
	cats *catalog.Catalogs
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cats *catalog.Catalogs) *CatalogHandler {
	return &CatalogHandler{cats: cats}
}

type instrumentResponse struct {
	InstrumentID string          `json:"instrument_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Exchange     string          `json:"exchange"`
	Currency     string          `json:"currency"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

type holdingResponse struct {
	InstrumentID         string          `json:"instrument_id"`
	Quantity             decimal.Decimal `json:"quantity"`
	AveragePurchasePrice decimal.Decimal `json:"average_purchase_price"`
}

type portfolioResponse struct {
	PortfolioID   string            `json:"portfolio_id"`
	InstitutionID string            `json:"institution_id"`
	Name          string            `json:"name"`
	Currency      string            `json:"currency"`
	Holdings      []holdingResponse `json:"holdings"`
}

type cashAccountResponse struct {
	AccountID     string          `json:"account_id"`
	InstitutionID string          `json:"institution_id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
}

type creditFacilityResponse struct {
	FacilityID    string          `json:"facility_id"`
	InstitutionID string          `json:"institution_id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Limit         decimal.Decimal `json:"limit"`
	Used          decimal.Decimal `json:"used"`
	Available     decimal.Decimal `json:"available"`
}

type brokerResponse struct {
	BrokerID string `json:"broker_id"`
	Name     string `json:"name"`
}

// ListInstruments handles GET /instruments.
func (h *CatalogHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments := h.cats.Instruments.List()
	out := make([]instrumentResponse, len(instruments))
	for i, in := range instruments {
		out[i] = instrumentResponse{
			InstrumentID: in.InstrumentID,
			Symbol:       in.Symbol,
			Name:         in.Name,
			Exchange:     in.Exchange,
			Currency:     in.Currency,
			CurrentPrice: in.CurrentPrice,
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListPortfolios handles GET /portfolios.
func (h *CatalogHandler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios := h.cats.Portfolios.List()
	out := make([]portfolioResponse, len(portfolios))
	for i, p := range portfolios {
		out[i] = buildPortfolioResponse(p)
	}
	WriteJSON(w, http.StatusOK, out)
}

func buildPortfolioResponse(p domain.Portfolio) portfolioResponse {
	resp := portfolioResponse{
		PortfolioID:   p.PortfolioID,
		InstitutionID: p.InstitutionID,
		Name:          p.Name,
		Currency:      p.Currency,
		Holdings:      []holdingResponse{},
	}
	// Listing order of the holdings map is not stable; clients key by
	// instrument_id.
	for id, h := range p.Holdings {
		resp.Holdings = append(resp.Holdings, holdingResponse{
			InstrumentID:         id,
			Quantity:             h.Quantity,
			AveragePurchasePrice: h.AveragePurchasePrice,
		})
	}
	return resp
}

// ListCashAccounts handles GET /cash-accounts.
func (h *CatalogHandler) ListCashAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.cats.Accounts.ListCash()
	out := make([]cashAccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = cashAccountResponse{
			AccountID:     a.AccountID,
			InstitutionID: a.InstitutionID,
			Name:          a.Name,
			Currency:      a.Currency,
			Balance:       a.Balance,
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListCreditFacilities handles GET /credit-facilities.
func (h *CatalogHandler) ListCreditFacilities(w http.ResponseWriter, r *http.Request) {
	facilities := h.cats.Accounts.ListCredit()
	out := make([]creditFacilityResponse, len(facilities))
	for i, f := range facilities {
		out[i] = creditFacilityResponse{
			FacilityID:    f.FacilityID,
			InstitutionID: f.InstitutionID,
			Name:          f.Name,
			Currency:      f.Currency,
			Limit:         f.Limit,
			Used:          f.Used,
			Available:     f.Available(),
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// ListBrokers handles GET /brokers.
func (h *CatalogHandler) ListBrokers(w http.ResponseWriter, r *http.Request) {
	brokers := h.cats.Brokers.List()
	out := make([]brokerResponse, len(brokers))
	for i, b := range brokers {
		out[i] = brokerResponse{BrokerID: b.BrokerID, Name: b.Name}
	}
	WriteJSON(w, http.StatusOK, out)
}
