package catalog

import (
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Seed returns the static reference data set the dashboard ships with.
func Seed() *Catalogs {
	instruments := []domain.Instrument{
		{InstrumentID: "inst-aapl", Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Currency: "USD", CurrentPrice: dec("178.72")},
		{InstrumentID: "inst-msft", Symbol: "MSFT", Name: "Microsoft Corp.", Exchange: "NASDAQ", Currency: "USD", CurrentPrice: dec("417.30")},
		{InstrumentID: "inst-nesn", Symbol: "NESN", Name: "Nestlé S.A.", Exchange: "SIX", Currency: "CHF", CurrentPrice: dec("92.14")},
		{InstrumentID: "inst-vwrl", Symbol: "VWRL", Name: "Vanguard FTSE All-World", Exchange: "AMS", Currency: "EUR", CurrentPrice: dec("112.54")},
	}

	portfolios := []domain.Portfolio{
		{
			PortfolioID: "port-1", InstitutionID: "lei-meridian", Name: "Growth Mandate", Currency: "USD",
			Holdings: map[string]domain.Holding{
				"inst-aapl": {Quantity: dec("250"), AveragePurchasePrice: dec("151.08")},
				"inst-msft": {Quantity: dec("40"), AveragePurchasePrice: dec("362.55")},
			},
		},
		{
			PortfolioID: "port-2", InstitutionID: "lei-meridian", Name: "Income Mandate", Currency: "USD",
			Holdings: map[string]domain.Holding{
				"inst-aapl": {Quantity: dec("20"), AveragePurchasePrice: dec("168.90")},
				"inst-vwrl": {Quantity: dec("600"), AveragePurchasePrice: dec("98.41")},
			},
		},
		{
			PortfolioID: "port-3", InstitutionID: "lei-alpenbank", Name: "Discretionary", Currency: "CHF",
			Holdings: map[string]domain.Holding{
				"inst-nesn": {Quantity: dec("120"), AveragePurchasePrice: dec("101.33")},
			},
		},
	}

	cash := []domain.CashAccount{
		{AccountID: "cash-1", InstitutionID: "lei-meridian", Name: "USD Settlement", Currency: "USD", Balance: dec("1250000.00")},
		{AccountID: "cash-2", InstitutionID: "lei-meridian", Name: "USD Reserve", Currency: "USD", Balance: dec("48000.00")},
		{AccountID: "cash-3", InstitutionID: "lei-alpenbank", Name: "CHF Current", Currency: "CHF", Balance: dec("73500.00")},
	}

	credit := []domain.CreditFacility{
		{FacilityID: "credit-1", InstitutionID: "lei-meridian", Name: "Lombard Facility", Currency: "USD", Limit: dec("500000.00"), Used: dec("120000.00")},
		{FacilityID: "credit-2", InstitutionID: "lei-alpenbank", Name: "Margin Line", Currency: "CHF", Limit: dec("200000.00"), Used: dec("0")},
	}

	brokers := []domain.Broker{
		{BrokerID: "brk-gsam", Name: "Goldman Sachs"},
		{BrokerID: "brk-ubs", Name: "UBS Investment Bank"},
		{BrokerID: "brk-ib", Name: "Interactive Brokers"},
	}

	return New(instruments, portfolios, cash, credit, brokers)
}
