package wizard

import "github.com/erivas/wealthdesk/internal/domain"

// Role identifies one of the four allocation-reconciliation contexts.
// A buy order reconciles funding sources against portfolio deposits; a
// sell order reconciles portfolio sources against cash deposits.
type Role string

const (
	RoleFundingSource    Role = "funding_sources"
	RolePortfolioDeposit Role = "portfolio_deposits"
	RolePortfolioSource  Role = "portfolio_sources"
	RoleCashDeposit      Role = "cash_deposits"
)

// RolesFor returns the (source, destination) role pair for an order type.
func RolesFor(t domain.OrderType) (Role, Role) {
	if t == domain.OrderTypeSell {
		return RolePortfolioSource, RoleCashDeposit
	}
	return RoleFundingSource, RolePortfolioDeposit
}

// ActiveFor reports whether the role participates in orders of type t.
func (r Role) ActiveFor(t domain.OrderType) bool {
	src, dst := RolesFor(t)
	return r == src || r == dst
}

// QuantityBased reports whether the role's natural unit is instrument
// quantity rather than currency amount.
func (r Role) QuantityBased() bool {
	return r == RolePortfolioSource || r == RolePortfolioDeposit
}

// ParseRole maps a wire identifier to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleFundingSource, RolePortfolioDeposit, RolePortfolioSource, RoleCashDeposit:
		return Role(s), true
	}
	return "", false
}
