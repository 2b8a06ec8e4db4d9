// Package store defines the persistence contract (C1) the rest of the
// core depends on: durable, transactional storage for accounts,
// transactions, and ledger entries, with row-level locking and
// uniqueness enforcement. Two implementations exist: postgres (the
// durable backend) and memory (used by unit tests and local/dev runs).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/domain/models"
)

// ErrNotFound is returned by lookups that miss.
var ErrNotFound = errors.New("store: not found")

// ErrReferenceConflict is returned when a transaction reference
// collides with an existing one under the case-insensitive unique
// constraint.
var ErrReferenceConflict = errors.New("store: reference already exists")

// ErrEntriesExist is returned by AppendLedgerEntries when entries for
// the given transaction id are already present (the idempotent-replay
// path in the recorder treats this as success, not failure).
var ErrEntriesExist = errors.New("store: ledger entries already recorded for transaction")

// ErrSerializationFailure signals a transient database conflict
// (e.g. Postgres SQLSTATE 40001). The caller may retry safely with the
// same reference.
var ErrSerializationFailure = errors.New("store: serialization failure, retry")

// Tx is a transactional handle bound to the store. Every mutation and
// every row-lock acquisition happens inside one.
type Tx interface {
	// GetAccountForUpdate fetches an account and holds an exclusive
	// row lock on it until the transaction completes.
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (models.Account, error)

	// SaveTransaction persists a new transaction row with the status it
	// carries (the engine saves transfers as PENDING; system credits are
	// saved as SUCCESS).
	SaveTransaction(ctx context.Context, tx models.Transaction) error

	// UpdateTransactionStatus transitions a transaction to a terminal
	// state. Called at most once per transaction id.
	UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason *string) error

	// AppendLedgerEntries atomically appends a batch of entries. It
	// returns ErrEntriesExist if entries for entries[0].TransactionID
	// already exist.
	AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error

	// SumByAccountAndType aggregates entry amounts of one type for an
	// account.
	SumByAccountAndType(ctx context.Context, accountID uuid.UUID, entryType models.EntryType) (decimal.Decimal, error)

	// EntriesByTransaction returns every entry sharing a transaction id.
	EntriesByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.LedgerEntry, error)
}

// Page describes a page of ledger entries ordered newest-first.
type Page struct {
	PageSize   int
	PageNumber int // 1-based
}

// Store is the full persistence surface, entered via WithTx /
// WithReadOnlyTx for the transactional sections §4.1 and §5 require.
type Store interface {
	// WithTx runs fn inside a read/write transaction (READ COMMITTED on
	// the postgres backend), committing when fn returns nil and rolling
	// back when it returns an error. A panic in fn is not recovered.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// WithReadOnlyTx runs fn inside a read-only transaction, for
	// Reporter queries that must tolerate concurrent writers without
	// taking locks.
	WithReadOnlyTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	CreateAccount(ctx context.Context, currency string, accountType string) (models.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error)

	FindTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error)
	FindTransactionByReferenceIgnoreCase(ctx context.Context, reference string) (models.Transaction, error)
	ListTransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error)

	CalculateBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
	CalculateBalanceByCurrency(ctx context.Context, accountID uuid.UUID, currency string) (decimal.Decimal, error)

	EntriesForAccountPaged(ctx context.Context, accountID uuid.UUID, page Page) ([]models.LedgerEntry, error)
	EntriesBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]models.LedgerEntry, error)
	EntriesBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]models.LedgerEntry, error)
}
