// Package models holds the persistence-agnostic entities of the
// wallet domain: accounts, transactions, and ledger entries. None of
// them carry mutable balance state — balance is always derived from
// ledger entries (see package ledger).
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/domain/types"
)

// Account is an identity, a currency, and an account type. It never
// stores a balance; balance is a read computed by the ledger.
type Account struct {
	ID        uuid.UUID
	Currency  types.Currency
	Type      types.AccountType
	CreatedAt time.Time
}

// TransactionType distinguishes a peer-to-peer transfer from a
// unilateral system credit (deposit).
type TransactionType string

const (
	Transfer TransactionType = "TRANSFER"
	Deposit  TransactionType = "DEPOSIT"
)

// TransactionStatus is the terminal-state machine of a Transaction:
// PENDING -> SUCCESS | FAILED(reason). Both SUCCESS and FAILED are
// terminal; there is no transition out of either.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// Transaction is the logical record of a transfer or deposit. It is
// created once in PENDING and mutated exactly once, to a terminal
// status; it is never deleted.
type Transaction struct {
	ID          uuid.UUID
	FromAccount uuid.UUID
	ToAccount   uuid.UUID
	Amount      decimal.Decimal
	Currency    types.Currency
	Type        TransactionType
	Reference   *string
	Description *string
	Status      TransactionStatus
	Reason      *string
	CreatedAt   time.Time
}

// EntryType is either side of a balanced ledger pair.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// LedgerEntry is an immutable, append-only record of one side of a
// transaction's effect on one account. Two entries sharing a
// TransactionID and carrying the same Amount/Currency but opposite
// Type form a balanced pair.
type LedgerEntry struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Type          EntryType
	Amount        decimal.Decimal
	Currency      types.Currency
	Description   string
	CreatedAt     time.Time
}

// SignedAmount returns the entry's amount signed for balance
// accumulation: positive for a credit, negative for a debit.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Type == Credit {
		return e.Amount
	}
	return e.Amount.Neg()
}
