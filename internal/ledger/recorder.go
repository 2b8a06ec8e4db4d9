// Package ledger implements the double-entry recorder (C2): it turns
// a Transaction into a balanced pair of immutable ledger entries and
// derives balances by aggregating them. It never mutates or deletes a
// previously written entry.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/domain/models"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/store"
)

// SystemFunding is the fixed account id used as the counter-party for
// unilateral system credits, preserving the global debit/credit
// equality invariant. The postgres backend seeds it as a SYSTEM
// account in the initial schema migration, which bootstrap applies at
// startup; that insert uses ON CONFLICT DO NOTHING, so concurrent
// startups do not fail on it. The memory store has no row for it.
var SystemFunding = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Recorder is the double-entry recorder, C2.
type Recorder struct{}

// New constructs a Recorder. It is stateless and safe for concurrent use.
func New() *Recorder {
	return &Recorder{}
}

// RecordTransfer appends a DEBIT on txn.FromAccount and a CREDIT on
// txn.ToAccount, both of txn.Amount in txn.Currency, inside the given
// transactional scope. If entries already exist for txn.ID (an
// idempotent replay), it returns success without writing again.
func (r *Recorder) RecordTransfer(ctx context.Context, tx store.Tx, txn models.Transaction) error {
	if _, err := tx.GetAccountForUpdate(ctx, txn.FromAccount); err != nil {
		return domainerrors.AccountNotFound{ID: txn.FromAccount}
	}
	if _, err := tx.GetAccountForUpdate(ctx, txn.ToAccount); err != nil {
		return domainerrors.AccountNotFound{ID: txn.ToAccount}
	}

	now := txn.CreatedAt
	entries := []models.LedgerEntry{
		{
			ID:            uuid.New(),
			AccountID:     txn.FromAccount,
			TransactionID: txn.ID,
			Type:          models.Debit,
			Amount:        txn.Amount,
			Currency:      txn.Currency,
			Description:   describe(txn),
			CreatedAt:     now,
		},
		{
			ID:            uuid.New(),
			AccountID:     txn.ToAccount,
			TransactionID: txn.ID,
			Type:          models.Credit,
			Amount:        txn.Amount,
			Currency:      txn.Currency,
			Description:   describe(txn),
			CreatedAt:     now,
		},
	}

	if err := tx.AppendLedgerEntries(ctx, entries); err != nil {
		if err == store.ErrEntriesExist {
			return nil
		}
		return err
	}
	return nil
}

// RecordSystemCredit writes a CREDIT on accountID and a DEBIT on
// SystemFunding of the same amount, preserving Σdebits = Σcredits.
func (r *Recorder) RecordSystemCredit(ctx context.Context, tx store.Tx, accountID uuid.UUID, amount decimal.Decimal, currency types.Currency, description string) (models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Transaction{}, domainerrors.InvalidTransaction{Kind: domainerrors.KindNonPositiveAmount, Detail: "system credit amount must be positive"}
	}

	if _, err := tx.GetAccountForUpdate(ctx, accountID); err != nil {
		return models.Transaction{}, domainerrors.AccountNotFound{ID: accountID}
	}

	id := uuid.New()
	now := time.Now().UTC()
	txn := models.Transaction{
		ID:          id,
		FromAccount: SystemFunding,
		ToAccount:   accountID,
		Amount:      amount,
		Currency:    currency,
		Type:        models.Deposit,
		Status:      models.StatusSuccess,
		Description: &description,
		CreatedAt:   now,
	}

	entries := []models.LedgerEntry{
		{
			ID:            uuid.New(),
			AccountID:     SystemFunding,
			TransactionID: id,
			Type:          models.Debit,
			Amount:        amount,
			Currency:      currency,
			Description:   description,
			CreatedAt:     now,
		},
		{
			ID:            uuid.New(),
			AccountID:     accountID,
			TransactionID: id,
			Type:          models.Credit,
			Amount:        amount,
			Currency:      currency,
			Description:   description,
			CreatedAt:     now,
		},
	}

	if err := tx.SaveTransaction(ctx, txn); err != nil {
		return models.Transaction{}, err
	}
	if err := tx.AppendLedgerEntries(ctx, entries); err != nil && err != store.ErrEntriesExist {
		return models.Transaction{}, err
	}
	return txn, nil
}

// Balance derives accountID's balance from ledger aggregates, within a
// read-only transactional scope.
func (r *Recorder) Balance(ctx context.Context, s store.Store, accountID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.WithReadOnlyTx(ctx, func(ctx context.Context, tx store.Tx) error {
		debit, err := tx.SumByAccountAndType(ctx, accountID, models.Debit)
		if err != nil {
			return err
		}
		credit, err := tx.SumByAccountAndType(ctx, accountID, models.Credit)
		if err != nil {
			return err
		}
		balance = credit.Sub(debit)
		return nil
	})
	return balance, err
}

// BalanceByCurrency restricts the aggregation to entries in a single
// currency.
func (r *Recorder) BalanceByCurrency(ctx context.Context, s store.Store, accountID uuid.UUID, currency types.Currency) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.WithReadOnlyTx(ctx, func(ctx context.Context, tx store.Tx) error {
		b, err := s.CalculateBalanceByCurrency(ctx, accountID, string(currency))
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	return balance, err
}

// VerifyBalance reports whether accountID's derived balance equals expected.
func (r *Recorder) VerifyBalance(ctx context.Context, s store.Store, accountID uuid.UUID, expected decimal.Decimal) (bool, error) {
	actual, err := r.Balance(ctx, s, accountID)
	if err != nil {
		return false, err
	}
	return actual.Equal(expected), nil
}

// VerifyAccountBalance raises BalanceVerification if account's derived
// balance does not equal expected. Used for reconciliation, not
// ordinary validation.
func (r *Recorder) VerifyAccountBalance(ctx context.Context, s store.Store, account models.Account, expected decimal.Decimal) error {
	ok, err := r.VerifyBalance(ctx, s, account.ID, expected)
	if err != nil {
		return err
	}
	if !ok {
		actual, _ := r.Balance(ctx, s, account.ID)
		return domainerrors.BalanceVerification{
			AccountID: account.ID,
			Expected:  expected.String(),
			Actual:    actual.String(),
		}
	}
	return nil
}

func describe(txn models.Transaction) string {
	if txn.Description != nil {
		return *txn.Description
	}
	return fmt.Sprintf("transfer %s", txn.ID)
}
