package wizard

import (
	"testing"

	"github.com/erivas/wealthdesk/internal/domain"
)

func TestRolesFor(t *testing.T) {
	src, dst := RolesFor(domain.OrderTypeBuy)
	if src != RoleFundingSource || dst != RolePortfolioDeposit {
		t.Errorf("buy: got (%s, %s)", src, dst)
	}
	src, dst = RolesFor(domain.OrderTypeSell)
	if src != RolePortfolioSource || dst != RoleCashDeposit {
		t.Errorf("sell: got (%s, %s)", src, dst)
	}
}

func TestRoleActiveFor(t *testing.T) {
	if !RoleFundingSource.ActiveFor(domain.OrderTypeBuy) || RoleFundingSource.ActiveFor(domain.OrderTypeSell) {
		t.Error("funding sources belong to buy orders only")
	}
	if !RoleCashDeposit.ActiveFor(domain.OrderTypeSell) || RoleCashDeposit.ActiveFor(domain.OrderTypeBuy) {
		t.Error("cash deposits belong to sell orders only")
	}
}

func TestRoleQuantityBased(t *testing.T) {
	if RoleFundingSource.QuantityBased() || RoleCashDeposit.QuantityBased() {
		t.Error("currency roles must not be quantity based")
	}
	if !RolePortfolioSource.QuantityBased() || !RolePortfolioDeposit.QuantityBased() {
		t.Error("portfolio roles are quantity based")
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"funding_sources", "portfolio_deposits", "portfolio_sources", "cash_deposits"} {
		if _, ok := ParseRole(s); !ok {
			t.Errorf("%q must parse", s)
		}
	}
	if _, ok := ParseRole("margin_sources"); ok {
		t.Error("unknown role must not parse")
	}
}

func TestStepString(t *testing.T) {
	want := []string{"instrument", "execution", "terms", "leverage", "allocation", "broker", "review"}
	for i, name := range want {
		if got := Step(i).String(); got != name {
			t.Errorf("Step(%d) = %q, want %q", i, got, name)
		}
	}
	if got := Step(99).String(); got != "unknown" {
		t.Errorf("out-of-range step = %q", got)
	}
}
