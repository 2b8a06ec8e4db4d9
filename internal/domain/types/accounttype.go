// Package types holds the small closed value types shared across the
// domain model: account types and currency codes.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType is a sealed variant, mirroring the source's discriminated
// account-type hierarchy. Each variant carries its own withdrawal
// policy instead of relying on caller-side branching.
type AccountType string

const (
	Main    AccountType = "MAIN"
	Bonus   AccountType = "BONUS"
	Pending AccountType = "PENDING"
	Jackpot AccountType = "JACKPOT"
	System  AccountType = "SYSTEM"
)

// Valid reports whether a is one of the known variants.
func (a AccountType) Valid() bool {
	switch a {
	case Main, Bonus, Pending, Jackpot, System:
		return true
	}
	return false
}

// Unbounded is returned by MaxWithdrawal for account types with no
// withdrawal ceiling (System).
var Unbounded = decimal.NewFromInt(-1)

// IsUnbounded reports whether a MaxWithdrawal result represents "no limit".
func IsUnbounded(max decimal.Decimal) bool {
	return max.Equal(Unbounded)
}

// MaxWithdrawal returns the maximum amount a may withdraw given its
// current balance. System is unbounded; Pending and Jackpot may never
// withdraw; Main and Bonus may withdraw up to the current balance.
func (a AccountType) MaxWithdrawal(currentBalance decimal.Decimal) decimal.Decimal {
	switch a {
	case System:
		return Unbounded
	case Pending, Jackpot:
		return decimal.Zero
	case Main, Bonus:
		return currentBalance
	default:
		return decimal.Zero
	}
}

// CanWithdraw reports whether amount may be withdrawn from an account
// of this type holding currentBalance.
func (a AccountType) CanWithdraw(currentBalance, amount decimal.Decimal) bool {
	max := a.MaxWithdrawal(currentBalance)
	if IsUnbounded(max) {
		return true
	}
	return amount.LessThanOrEqual(max)
}

// Currency is a validated enumerated currency code.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	CHF Currency = "CHF"
)

// ParseCurrency validates a raw currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(code)
	switch c {
	case EUR, USD, CHF:
		return c, nil
	default:
		return "", fmt.Errorf("unknown currency code %q", code)
	}
}

func (c Currency) String() string {
	return string(c)
}
