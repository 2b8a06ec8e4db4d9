// Package reporter implements the read-only reporting primitives
// (C5): transaction history, a paginated running-balance ledger, and
// a per-period account statement. Each operation wraps its reads in
// WithReadOnlyTx and takes no locks, but only the entry lookup by
// transaction id goes through the transaction handle; the other reads
// are Store methods, which the postgres backend runs on its connection
// pool outside that transaction.
package reporter

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/domain/models"
	"wallet-core/internal/store"
)

// Reporter is stateless and safe for concurrent use.
type Reporter struct {
	s store.Store
}

// New constructs a Reporter bound to a Store.
func New(s store.Store) *Reporter {
	return &Reporter{s: s}
}

// TransactionHistory is a transaction plus the ledger entries it
// produced (zero while PENDING or after a FAILED transfer that wrote
// no entries; exactly two after SUCCESS).
type TransactionHistory struct {
	Transaction models.Transaction
	Entries     []models.LedgerEntry
}

// TransactionHistory returns txID's record and its entry list.
func (r *Reporter) TransactionHistory(ctx context.Context, txID uuid.UUID) (TransactionHistory, error) {
	var out TransactionHistory
	err := r.s.WithReadOnlyTx(ctx, func(ctx context.Context, tx store.Tx) error {
		txn, err := r.s.FindTransaction(ctx, txID)
		if err != nil {
			return err
		}
		entries, err := tx.EntriesByTransaction(ctx, txID)
		if err != nil {
			return err
		}
		out = TransactionHistory{Transaction: txn, Entries: entries}
		return nil
	})
	return out, err
}

// LedgerEntryView annotates a ledger entry with its running balance:
// the account balance as of and including this entry, computed as if
// entries were applied oldest-first from the beginning of time.
type LedgerEntryView struct {
	models.LedgerEntry
	RunningBalance decimal.Decimal
}

// AccountLedger is a page of entries sorted newest-first, each with a
// running balance, alongside the account's current balance.
type AccountLedger struct {
	Entries        []LedgerEntryView
	CurrentBalance decimal.Decimal
}

// AccountLedger returns page (pageNumber, pageSize) of accountID's
// ledger, newest-first, with running balances computed from the
// chronological start of the ledger.
func (r *Reporter) AccountLedger(ctx context.Context, accountID uuid.UUID, pageSize, pageNumber int) (AccountLedger, error) {
	var out AccountLedger
	err := r.s.WithReadOnlyTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := r.s.GetAccount(ctx, accountID); err != nil {
			return domainerrors.AccountNotFound{ID: accountID}
		}

		page, err := r.s.EntriesForAccountPaged(ctx, accountID, store.Page{PageSize: pageSize, PageNumber: pageNumber})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			balance, err := r.s.CalculateBalance(ctx, accountID)
			if err != nil {
				return err
			}
			out = AccountLedger{CurrentBalance: balance}
			return nil
		}

		oldestInPage := page[len(page)-1].CreatedAt
		priorEntries, err := r.s.EntriesBefore(ctx, accountID, oldestInPage)
		if err != nil {
			return err
		}

		runningBefore := decimal.Zero
		for _, e := range priorEntries {
			runningBefore = runningBefore.Add(e.SignedAmount())
		}

		chronological := append([]models.LedgerEntry(nil), page...)
		sort.Slice(chronological, func(i, j int) bool { return chronological[i].CreatedAt.Before(chronological[j].CreatedAt) })

		runningByID := make(map[uuid.UUID]decimal.Decimal, len(chronological))
		running := runningBefore
		for _, e := range chronological {
			running = running.Add(e.SignedAmount())
			runningByID[e.ID] = running
		}

		views := make([]LedgerEntryView, len(page))
		for i, e := range page {
			views[i] = LedgerEntryView{LedgerEntry: e, RunningBalance: runningByID[e.ID]}
		}

		balance, err := r.s.CalculateBalance(ctx, accountID)
		if err != nil {
			return err
		}

		out = AccountLedger{Entries: views, CurrentBalance: balance}
		return nil
	})
	return out, err
}

// AccountStatement summarizes an account's activity over [start, end]:
// opening and closing balances, totals, and an oldest-first list of
// entries in the period.
type AccountStatement struct {
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalDebits    decimal.Decimal
	TotalCredits   decimal.Decimal
	EntryCount     int
	Entries        []models.LedgerEntry
}

// AccountStatement computes accountID's statement for [start, end].
func (r *Reporter) AccountStatement(ctx context.Context, accountID uuid.UUID, start, end time.Time) (AccountStatement, error) {
	var out AccountStatement
	err := r.s.WithReadOnlyTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := r.s.GetAccount(ctx, accountID); err != nil {
			return domainerrors.AccountNotFound{ID: accountID}
		}

		beforeStart, err := r.s.EntriesBefore(ctx, accountID, start)
		if err != nil {
			return err
		}
		opening := decimal.Zero
		for _, e := range beforeStart {
			opening = opening.Add(e.SignedAmount())
		}

		period, err := r.s.EntriesBetween(ctx, accountID, start, end)
		if err != nil {
			return err
		}

		closing := opening
		totalDebits := decimal.Zero
		totalCredits := decimal.Zero
		for _, e := range period {
			closing = closing.Add(e.SignedAmount())
			if e.Type == models.Debit {
				totalDebits = totalDebits.Add(e.Amount)
			} else {
				totalCredits = totalCredits.Add(e.Amount)
			}
		}

		out = AccountStatement{
			OpeningBalance: opening,
			ClosingBalance: closing,
			TotalDebits:    totalDebits,
			TotalCredits:   totalCredits,
			EntryCount:     len(period),
			Entries:        period,
		}
		return nil
	})
	return out, err
}
