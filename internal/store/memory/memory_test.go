package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/store"
)

func TestFindTransactionByReferenceIgnoreCase(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref := "Order-123"

	txn := models.Transaction{ID: uuid.New(), Reference: &ref, Status: models.StatusSuccess, CreatedAt: time.Now()}
	err := s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.SaveTransaction(ctx, txn)
	})
	require.NoError(t, err)

	found, err := s.FindTransactionByReferenceIgnoreCase(ctx, "order-123")
	require.NoError(t, err)
	assert.Equal(t, txn.ID, found.ID)

	_, err = s.FindTransactionByReferenceIgnoreCase(ctx, "no-such-ref")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendLedgerEntriesRejectsDuplicateTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	txID := uuid.New()
	entries := []models.LedgerEntry{
		{ID: uuid.New(), AccountID: acc.ID, TransactionID: txID, Type: models.Credit, Amount: decimal.NewFromInt(10)},
	}

	err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.AppendLedgerEntries(ctx, entries)
	})
	require.NoError(t, err)

	err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.AppendLedgerEntries(ctx, entries)
	})
	assert.ErrorIs(t, err, store.ErrEntriesExist)
}

func TestEntriesForAccountPagedOrdersNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	base := time.Now()
	err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.AppendLedgerEntries(ctx, []models.LedgerEntry{
			{ID: uuid.New(), AccountID: acc.ID, TransactionID: uuid.New(), Type: models.Credit, Amount: decimal.NewFromInt(1), CreatedAt: base},
		})
	})
	require.NoError(t, err)

	err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.AppendLedgerEntries(ctx, []models.LedgerEntry{
			{ID: uuid.New(), AccountID: acc.ID, TransactionID: uuid.New(), Type: models.Credit, Amount: decimal.NewFromInt(2), CreatedAt: base.Add(time.Minute)},
		})
	})
	require.NoError(t, err)

	page, err := s.EntriesForAccountPaged(ctx, acc.ID, store.Page{PageSize: 10, PageNumber: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].Amount.Equal(decimal.NewFromInt(2)), "newest entry must come first")
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	boom := assertErr{}
	err = s.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_ = tx.AppendLedgerEntries(ctx, []models.LedgerEntry{
			{ID: uuid.New(), AccountID: acc.ID, TransactionID: uuid.New(), Type: models.Credit, Amount: decimal.NewFromInt(5)},
		})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := s.CalculateBalance(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "entries written during a failed transaction must not be committed")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
