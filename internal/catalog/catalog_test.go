package catalog

import (
	"errors"
	"testing"

	"github.com/erivas/wealthdesk/internal/domain"
)

func TestSeed(t *testing.T) {
	cats := Seed()

	instruments := cats.Instruments.List()
	if len(instruments) != 4 {
		t.Fatalf("got %d instruments, want 4", len(instruments))
	}
	aapl, err := cats.Instruments.Get("inst-aapl")
	if err != nil {
		t.Fatalf("get inst-aapl failed: %v", err)
	}
	if aapl.Symbol != "AAPL" || !aapl.CurrentPrice.Equal(dec("178.72")) {
		t.Errorf("unexpected AAPL entry: %+v", aapl)
	}

	if got := len(cats.Portfolios.List()); got != 3 {
		t.Errorf("got %d portfolios, want 3", got)
	}
	p, err := cats.Portfolios.Get("port-1")
	if err != nil {
		t.Fatalf("get port-1 failed: %v", err)
	}
	if !p.HoldingQuantity("inst-aapl").Equal(dec("250")) {
		t.Errorf("got port-1 AAPL holding %s, want 250", p.HoldingQuantity("inst-aapl"))
	}
	if !p.HoldingQuantity("inst-nesn").IsZero() {
		t.Error("missing holding must read as zero")
	}

	if got := len(cats.Accounts.ListCash()); got != 3 {
		t.Errorf("got %d cash accounts, want 3", got)
	}
	facility, err := cats.Accounts.GetCredit("credit-1")
	if err != nil {
		t.Fatalf("get credit-1 failed: %v", err)
	}
	if !facility.Available().Equal(dec("380000.00")) {
		t.Errorf("got available %s, want limit − used = 380000", facility.Available())
	}
}

func TestBrokerCatalog_BestExecutionAlwaysPresent(t *testing.T) {
	c := NewBrokerCatalog(nil)
	if !c.Exists(domain.BrokerBestExecution) {
		t.Fatal("best-execution broker missing from empty catalog")
	}
	brokers := c.List()
	if len(brokers) != 1 || brokers[0].BrokerID != domain.BrokerBestExecution {
		t.Errorf("unexpected list: %+v", brokers)
	}

	seeded := Seed()
	list := seeded.Brokers.List()
	if list[0].BrokerID != domain.BrokerBestExecution {
		t.Errorf("best execution must list first, got %q", list[0].BrokerID)
	}
	if len(list) != 4 {
		t.Errorf("got %d brokers, want best + 3 seeded", len(list))
	}
}

func TestCatalog_NotFoundErrors(t *testing.T) {
	cats := Seed()

	if _, err := cats.Instruments.Get("inst-nope"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("instrument: got %v", err)
	}
	if _, err := cats.Portfolios.Get("port-nope"); !errors.Is(err, domain.ErrPortfolioNotFound) {
		t.Errorf("portfolio: got %v", err)
	}
	if _, err := cats.Accounts.GetCash("cash-nope"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("cash: got %v", err)
	}
	if _, err := cats.Accounts.GetCredit("credit-nope"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("credit: got %v", err)
	}
	if cats.Brokers.Exists("brk-nope") {
		t.Error("unknown broker must not exist")
	}
}

func TestCatalog_UnknownCurrencyIgnored(t *testing.T) {
	cats := New(
		[]domain.Instrument{
			{InstrumentID: "inst-1", Symbol: "ONE", Currency: "USD", CurrentPrice: dec("10")},
			{InstrumentID: "inst-2", Symbol: "TWO", Currency: "ZZZ", CurrentPrice: dec("20")},
		},
		[]domain.Portfolio{
			{PortfolioID: "port-1", Currency: "CHF"},
			{PortfolioID: "port-2", Currency: "bogus"},
		},
		[]domain.CashAccount{
			{AccountID: "cash-1", Currency: "EUR", Balance: dec("100")},
			{AccountID: "cash-2", Currency: "", Balance: dec("100")},
		},
		[]domain.CreditFacility{
			{FacilityID: "credit-1", Currency: "ZZZ", Limit: dec("100")},
		},
		nil,
	)

	if got := len(cats.Instruments.List()); got != 1 {
		t.Errorf("got %d instruments, want 1", got)
	}
	if _, err := cats.Instruments.Get("inst-2"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Error("instrument with unknown currency must not be seeded")
	}
	if got := len(cats.Portfolios.List()); got != 1 {
		t.Errorf("got %d portfolios, want 1", got)
	}
	if got := len(cats.Accounts.ListCash()); got != 1 {
		t.Errorf("got %d cash accounts, want 1", got)
	}
	if got := len(cats.Accounts.ListCredit()); got != 0 {
		t.Errorf("got %d credit facilities, want 0", got)
	}
}

func TestCatalog_DuplicateIDsIgnored(t *testing.T) {
	c := NewInstrumentCatalog([]domain.Instrument{
		{InstrumentID: "inst-1", Symbol: "ONE", Currency: "USD", CurrentPrice: dec("10")},
		{InstrumentID: "inst-1", Symbol: "TWO", Currency: "USD", CurrentPrice: dec("20")},
	})
	got, err := c.Get("inst-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Symbol != "ONE" {
		t.Errorf("duplicate seed entry replaced the first: %q", got.Symbol)
	}
	if len(c.List()) != 1 {
		t.Errorf("got %d entries, want 1", len(c.List()))
	}
}
