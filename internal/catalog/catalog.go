package catalog

import "github.com/erivas/wealthdesk/internal/domain"

// Catalogs bundles the five reference catalogs consumed by the wizard
// and the submission service.
type Catalogs struct {
	Instruments *InstrumentCatalog
	Portfolios  *PortfolioCatalog
	Accounts    *AccountCatalog
	Brokers     *BrokerCatalog
}

// New assembles the catalog bundle from seed data.
func New(
	instruments []domain.Instrument,
	portfolios []domain.Portfolio,
	cash []domain.CashAccount,
	credit []domain.CreditFacility,
	brokers []domain.Broker,
) *Catalogs {
	return &Catalogs{
		Instruments: NewInstrumentCatalog(instruments),
		Portfolios:  NewPortfolioCatalog(portfolios),
		Accounts:    NewAccountCatalog(cash, credit),
		Brokers:     NewBrokerCatalog(brokers),
	}
}
