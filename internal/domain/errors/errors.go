// Package errors defines the typed failures the transfer core can
// produce. Callers (the HTTP façade in particular) switch on these
// types instead of matching error strings.
package errors

import (
	"fmt"

	"github.com/google/uuid"
)

// AccountNotFound is returned when a lookup misses. 404-class.
type AccountNotFound struct {
	ID uuid.UUID
}

func (e AccountNotFound) Error() string {
	return fmt.Sprintf("account not found: %s", e.ID)
}

// CurrencyMismatch is returned when two accounts (or an account and a
// transaction) disagree on currency. 400-class.
type CurrencyMismatch struct {
	From string
	To   string
}

func (e CurrencyMismatch) Error() string {
	return fmt.Sprintf("currency mismatch: %s != %s", e.From, e.To)
}

// InsufficientFunds is returned when the requested amount exceeds the
// account-type-specific maximum withdrawal. 400-class.
type InsufficientFunds struct {
	AccountID uuid.UUID
	Reason    string
}

func (e InsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: %s", e.AccountID, e.Reason)
}

// InvalidTransactionKind enumerates the sub-kinds of InvalidTransaction.
type InvalidTransactionKind string

const (
	KindNonPositiveAmount   InvalidTransactionKind = "non_positive_amount"
	KindDuplicateReference  InvalidTransactionKind = "duplicate_reference"
	KindMissingField        InvalidTransactionKind = "missing_field"
	KindSelfTransfer        InvalidTransactionKind = "self_transfer"
	KindInvalidCurrencyCode InvalidTransactionKind = "invalid_currency_code"
)

// InvalidTransaction is returned for pre-lock shape violations.
// 400-class.
type InvalidTransaction struct {
	Kind   InvalidTransactionKind
	Detail string
}

func (e InvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction (%s): %s", e.Kind, e.Detail)
}

// BalanceVerification signals that a derived balance does not match an
// expected value. This indicates ledger corruption, not user error, and
// is never surfaced as a 4xx.
type BalanceVerification struct {
	AccountID uuid.UUID
	Expected  string
	Actual    string
}

func (e BalanceVerification) Error() string {
	return fmt.Sprintf("balance verification failed for %s: expected %s, got %s", e.AccountID, e.Expected, e.Actual)
}
