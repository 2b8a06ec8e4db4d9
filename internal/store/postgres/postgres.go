// Package postgres implements store.Store on top of pgx/pgxpool,
// locking accounts with SELECT ... FOR UPDATE in the deterministic
// order the engine requests them, the way the teacher's
// PostgresRepository.AtomicTransfer locked its accounts.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/logging"
	"wallet-core/internal/store"
)

// sqlStateUniqueViolation and sqlStateSerializationFailure are the
// Postgres SQLSTATE codes the Store maps onto store's sentinel errors.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
)

// Store implements store.Store against a PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a pool against cfg and verifies connectivity.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse connection string: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		poolCfg.MaxConnLifetime = lifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	logging.Info("postgres pool ready", map[string]interface{}{
		"max_conns": poolCfg.MaxConns, "min_conns": poolCfg.MinConns,
	})

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the underlying pgxpool, for the migration runner.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

type tx struct {
	pgx pgx.Tx
}

func (s *Store) withTx(ctx context.Context, accessMode pgx.TxAccessMode, fn func(ctx context.Context, tx store.Tx) error) error {
	pgxTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: accessMode})
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	if err := fn(ctx, &tx{pgx: pgxTx}); err != nil {
		_ = pgxTx.Rollback(ctx)
		return mapErr(err)
	}

	if err := pgxTx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlStateSerializationFailure {
			return store.ErrSerializationFailure
		}
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// WithTx runs fn inside a read/write transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.withTx(ctx, pgx.ReadWrite, fn)
}

// WithReadOnlyTx runs fn inside a read-only transaction.
func (s *Store) WithReadOnlyTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.withTx(ctx, pgx.ReadOnly, fn)
}

func mapErr(err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrEntriesExist) ||
		errors.Is(err, store.ErrReferenceConflict) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return store.ErrReferenceConflict
		case sqlStateSerializationFailure:
			return store.ErrSerializationFailure
		}
	}
	return err
}

// GetAccountForUpdate locks accountID's row for the remainder of the
// transaction.
func (t *tx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (models.Account, error) {
	const q = `SELECT id, currency, account_type, created_at FROM accounts WHERE id = $1 FOR UPDATE`
	return scanAccount(t.pgx.QueryRow(ctx, q, id))
}

// SaveTransaction inserts a transaction row.
func (t *tx) SaveTransaction(ctx context.Context, txn models.Transaction) error {
	const q = `
		INSERT INTO transactions (id, from_account, to_account, amount, currency, type, reference, description, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, reason = EXCLUDED.reason
	`
	createdAt := txn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := t.pgx.Exec(ctx, q,
		txn.ID, txn.FromAccount, txn.ToAccount, txn.Amount, string(txn.Currency),
		string(txn.Type), txn.Reference, txn.Description, string(txn.Status), txn.Reason, createdAt,
	)
	return err
}

// UpdateTransactionStatus transitions a transaction to a terminal state.
func (t *tx) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason *string) error {
	const q = `UPDATE transactions SET status = $1, reason = $2 WHERE id = $3`
	_, err := t.pgx.Exec(ctx, q, string(status), reason, id)
	return err
}

// AppendLedgerEntries inserts every entry, returning ErrEntriesExist on
// a conflict against the (transaction_id, type) uniqueness constraint.
func (t *tx) AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	const q = `
		INSERT INTO ledger_entries (id, account_id, transaction_id, type, amount, currency, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		batch.Queue(q, e.ID, e.AccountID, e.TransactionID, string(e.Type), e.Amount, string(e.Currency), e.Description, createdAt)
	}
	results := t.pgx.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation {
				return store.ErrEntriesExist
			}
			return err
		}
	}
	return nil
}

// SumByAccountAndType aggregates an account's entries of one type.
func (t *tx) SumByAccountAndType(ctx context.Context, accountID uuid.UUID, entryType models.EntryType) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_id = $1 AND type = $2`
	var sum decimal.Decimal
	err := t.pgx.QueryRow(ctx, q, accountID, string(entryType)).Scan(&sum)
	return sum, err
}

// EntriesByTransaction returns every entry sharing transactionID.
func (t *tx) EntriesByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.LedgerEntry, error) {
	const q = `
		SELECT id, account_id, transaction_id, type, amount, currency, description, created_at
		FROM ledger_entries WHERE transaction_id = $1 ORDER BY created_at
	`
	rows, err := t.pgx.Query(ctx, q, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// CreateAccount inserts a new account.
func (s *Store) CreateAccount(ctx context.Context, currency string, accountType string) (models.Account, error) {
	const q = `
		INSERT INTO accounts (id, currency, account_type, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, currency, account_type, created_at
	`
	id := uuid.New()
	now := time.Now().UTC()
	return scanAccount(s.pool.QueryRow(ctx, q, id, currency, accountType, now))
}

// GetAccount fetches an account without locking it.
func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error) {
	const q = `SELECT id, currency, account_type, created_at FROM accounts WHERE id = $1`
	return scanAccount(s.pool.QueryRow(ctx, q, id))
}

// FindTransaction looks up a transaction by id.
func (s *Store) FindTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	const q = `
		SELECT id, from_account, to_account, amount, currency, type, reference, description, status, reason, created_at
		FROM transactions WHERE id = $1
	`
	return scanTransaction(s.pool.QueryRow(ctx, q, id))
}

// FindTransactionByReferenceIgnoreCase looks up a transaction by
// case-insensitive reference.
func (s *Store) FindTransactionByReferenceIgnoreCase(ctx context.Context, reference string) (models.Transaction, error) {
	const q = `
		SELECT id, from_account, to_account, amount, currency, type, reference, description, status, reason, created_at
		FROM transactions WHERE lower(reference) = lower($1)
	`
	return scanTransaction(s.pool.QueryRow(ctx, q, reference))
}

// ListTransactionsForAccount returns every transaction touching accountID.
func (s *Store) ListTransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	const q = `
		SELECT id, from_account, to_account, amount, currency, type, reference, description, status, reason, created_at
		FROM transactions WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, txn)
	}
	return out, rows.Err()
}

// CalculateBalance derives an account's balance from every entry.
func (s *Store) CalculateBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries WHERE account_id = $1
	`
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx, q, accountID).Scan(&balance)
	return balance, err
}

// CalculateBalanceByCurrency restricts the aggregation to one currency.
func (s *Store) CalculateBalanceByCurrency(ctx context.Context, accountID uuid.UUID, currency string) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(CASE WHEN type = 'CREDIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries WHERE account_id = $1 AND currency = $2
	`
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx, q, accountID, currency).Scan(&balance)
	return balance, err
}

// EntriesForAccountPaged returns a newest-first page of accountID's entries.
func (s *Store) EntriesForAccountPaged(ctx context.Context, accountID uuid.UUID, page store.Page) ([]models.LedgerEntry, error) {
	size := page.PageSize
	if size <= 0 {
		size = 50
	}
	number := page.PageNumber
	if number <= 0 {
		number = 1
	}
	const q = `
		SELECT id, account_id, transaction_id, type, amount, currency, description, created_at
		FROM ledger_entries WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.pool.Query(ctx, q, accountID, size, (number-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// EntriesBefore returns every entry strictly before the given time,
// oldest-first, used to derive a running or opening balance.
func (s *Store) EntriesBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]models.LedgerEntry, error) {
	const q = `
		SELECT id, account_id, transaction_id, type, amount, currency, description, created_at
		FROM ledger_entries WHERE account_id = $1 AND created_at < $2
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, q, accountID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// EntriesBetween returns every entry in [start, end], oldest-first.
func (s *Store) EntriesBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]models.LedgerEntry, error) {
	const q = `
		SELECT id, account_id, transaction_id, type, amount, currency, description, created_at
		FROM ledger_entries WHERE account_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, q, accountID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

type row interface {
	Scan(dest ...interface{}) error
}

func scanAccount(r row) (models.Account, error) {
	var a models.Account
	var currency, accountType string
	if err := r.Scan(&a.ID, &currency, &accountType, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, store.ErrNotFound
		}
		return models.Account{}, err
	}
	a.Currency = types.Currency(currency)
	a.Type = types.AccountType(accountType)
	return a, nil
}

func scanTransaction(r row) (models.Transaction, error) {
	var t models.Transaction
	var currency, txType, status string
	if err := r.Scan(&t.ID, &t.FromAccount, &t.ToAccount, &t.Amount, &currency, &txType,
		&t.Reference, &t.Description, &status, &t.Reason, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, store.ErrNotFound
		}
		return models.Transaction{}, err
	}
	t.Currency = types.Currency(currency)
	t.Type = models.TransactionType(txType)
	t.Status = models.TransactionStatus(status)
	return t, nil
}

func scanTransactionRow(rows pgx.Rows) (models.Transaction, error) {
	return scanTransaction(rows)
}

func scanEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var entryType, currency string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.TransactionID, &entryType, &e.Amount, &currency, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Type = models.EntryType(entryType)
		e.Currency = types.Currency(currency)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ store.Store = (*Store)(nil)
var _ store.Tx = (*tx)(nil)
