// Package memory is an in-memory Store used by unit tests and local
// development runs that don't need a live PostgreSQL instance. It
// honors the same transactional contract as the postgres backend:
// GetAccountForUpdate takes an exclusive per-account lock, and writes
// made during a transaction only become visible to other callers if
// the transaction's callback returns nil.
//
// A store-wide mutex guards the maps for the duration of each single
// read or commit; it is not held while a transaction's callback runs,
// so transactions do run concurrently. Exclusion between them comes
// from the per-account locks taken by GetAccountForUpdate, released
// when WithTx returns. Reads inside a transaction see committed state
// only, not the transaction's own buffered writes. This is a
// simplification for a test double, not a production concurrency model.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu sync.Mutex

	accounts        map[uuid.UUID]models.Account
	transactions    map[uuid.UUID]models.Transaction
	referenceIndex  map[string]uuid.UUID // lower(reference) -> transaction id
	entriesByTx     map[uuid.UUID][]models.LedgerEntry
	entriesByAcct   map[uuid.UUID][]models.LedgerEntry
	accountLocks    map[uuid.UUID]*sync.Mutex
	accountLocksMu  sync.Mutex
	now             func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:       make(map[uuid.UUID]models.Account),
		transactions:   make(map[uuid.UUID]models.Transaction),
		referenceIndex: make(map[string]uuid.UUID),
		entriesByTx:    make(map[uuid.UUID][]models.LedgerEntry),
		entriesByAcct:  make(map[uuid.UUID][]models.LedgerEntry),
		accountLocks:   make(map[uuid.UUID]*sync.Mutex),
		now:            time.Now,
	}
}

func (s *Store) accountLock(id uuid.UUID) *sync.Mutex {
	s.accountLocksMu.Lock()
	defer s.accountLocksMu.Unlock()
	l, ok := s.accountLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[id] = l
	}
	return l
}

// CreateAccount inserts a new, zero-balance account.
func (s *Store) CreateAccount(ctx context.Context, currency string, accountType string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := models.Account{
		ID:        uuid.New(),
		Currency:  types.Currency(currency),
		Type:      types.AccountType(accountType),
		CreatedAt: s.now().UTC(),
	}
	s.accounts[acc.ID] = acc
	return acc, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.Account{}, store.ErrNotFound
	}
	return acc, nil
}

func (s *Store) FindTransaction(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return models.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *Store) FindTransactionByReferenceIgnoreCase(ctx context.Context, reference string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.referenceIndex[strings.ToLower(reference)]
	if !ok {
		return models.Transaction{}, store.ErrNotFound
	}
	return s.transactions[id], nil
}

func (s *Store) ListTransactionsForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.transactions {
		if tx.FromAccount == accountID || tx.ToAccount == accountID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CalculateBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(accountID, nil), nil
}

func (s *Store) CalculateBalanceByCurrency(ctx context.Context, accountID uuid.UUID, currency string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := types.Currency(currency)
	return s.sumLocked(accountID, &cur), nil
}

func (s *Store) sumLocked(accountID uuid.UUID, currency *types.Currency) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entriesByAcct[accountID] {
		if currency != nil && e.Currency != *currency {
			continue
		}
		total = total.Add(e.SignedAmount())
	}
	return total
}

func (s *Store) EntriesForAccountPaged(ctx context.Context, accountID uuid.UUID, page store.Page) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]models.LedgerEntry(nil), s.entriesByAcct[accountID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	start := (page.PageNumber - 1) * page.PageSize
	if start < 0 || start >= len(entries) {
		return nil, nil
	}
	end := start + page.PageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], nil
}

func (s *Store) EntriesBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LedgerEntry
	for _, e := range s.entriesByAcct[accountID] {
		if e.CreatedAt.Before(before) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) EntriesBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.LedgerEntry
	for _, e := range s.entriesByAcct[accountID] {
		if !e.CreatedAt.Before(start) && !e.CreatedAt.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// statusUpdate is a buffered UpdateTransactionStatus call, applied on
// commit only.
type statusUpdate struct {
	id     uuid.UUID
	status models.TransactionStatus
	reason *string
}

// tx is the transactional handle handed to WithTx/WithReadOnlyTx
// callbacks. Writes are buffered and only applied to the store if the
// callback returns nil.
type tx struct {
	s             *Store
	readOnly      bool
	locked        []uuid.UUID
	newTx         *models.Transaction
	statusUpdates []statusUpdate
	newEntries    []models.LedgerEntry
}

func (t *tx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (models.Account, error) {
	if t.readOnly {
		return t.s.GetAccount(ctx, id)
	}
	held := false
	for _, l := range t.locked {
		if l == id {
			held = true
			break
		}
	}
	// A repeated call for an account this transaction already holds
	// does not lock again, as a repeated SELECT ... FOR UPDATE in
	// postgres does not block its own transaction.
	if !held {
		lock := t.s.accountLock(id)
		lock.Lock()
		t.locked = append(t.locked, id)
	}

	acc, err := t.s.GetAccount(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	return acc, nil
}

func (t *tx) SaveTransaction(ctx context.Context, transaction models.Transaction) error {
	cp := transaction
	t.newTx = &cp
	return nil
}

func (t *tx) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason *string) error {
	t.statusUpdates = append(t.statusUpdates, statusUpdate{id: id, status: status, reason: reason})
	return nil
}

func (t *tx) AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	t.s.mu.Lock()
	_, exists := t.s.entriesByTx[entries[0].TransactionID]
	t.s.mu.Unlock()
	if exists {
		return store.ErrEntriesExist
	}
	t.newEntries = append(t.newEntries, entries...)
	return nil
}

func (t *tx) SumByAccountAndType(ctx context.Context, accountID uuid.UUID, entryType models.EntryType) (decimal.Decimal, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	total := decimal.Zero
	for _, e := range t.s.entriesByAcct[accountID] {
		if e.Type == entryType {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (t *tx) EntriesByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.LedgerEntry, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return append([]models.LedgerEntry(nil), t.s.entriesByTx[transactionID]...), nil
}

func (t *tx) unlockAll() {
	for i := len(t.locked) - 1; i >= 0; i-- {
		t.s.accountLock(t.locked[i]).Unlock()
	}
}

func (t *tx) commit() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.newTx != nil {
		t.s.transactions[t.newTx.ID] = *t.newTx
		if t.newTx.Reference != nil {
			t.s.referenceIndex[strings.ToLower(*t.newTx.Reference)] = t.newTx.ID
		}
	}
	for _, u := range t.statusUpdates {
		cur, ok := t.s.transactions[u.id]
		if !ok {
			continue
		}
		cur.Status = u.status
		cur.Reason = u.reason
		t.s.transactions[u.id] = cur
	}
	for _, e := range t.newEntries {
		t.s.entriesByTx[e.TransactionID] = append(t.s.entriesByTx[e.TransactionID], e)
		t.s.entriesByAcct[e.AccountID] = append(t.s.entriesByAcct[e.AccountID], e)
	}
}

// WithTx runs fn inside a simulated read/write transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, storeTx store.Tx) error) error {
	t := &tx{s: s}
	err := fn(ctx, t)
	if err == nil {
		t.commit()
	}
	t.unlockAll()
	return err
}

// WithReadOnlyTx runs fn inside a read-only transaction; it never
// takes account locks and never mutates the store.
func (s *Store) WithReadOnlyTx(ctx context.Context, fn func(ctx context.Context, storeTx store.Tx) error) error {
	t := &tx{s: s, readOnly: true}
	return fn(ctx, t)
}

var _ store.Store = (*Store)(nil)
