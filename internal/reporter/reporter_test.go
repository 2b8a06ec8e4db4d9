package reporter

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/engine"
	"wallet-core/internal/store/memory"
)

func TestTransactionHistoryReturnsEntries(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	from, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)
	to, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	e := engine.New(s)
	_, err = e.Deposit(ctx, from.ID, decimal.NewFromInt(100), "seed")
	require.NoError(t, err)

	txn, err := e.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(25), nil, nil)
	require.NoError(t, err)

	r := New(s)
	history, err := r.TransactionHistory(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, history.Transaction.Status)
	assert.Len(t, history.Entries, 2)
}

func TestAccountLedgerComputesRunningBalance(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	e := engine.New(s)
	_, err = e.Deposit(ctx, acc.ID, decimal.NewFromInt(10), "first")
	require.NoError(t, err)
	_, err = e.Deposit(ctx, acc.ID, decimal.NewFromInt(20), "second")
	require.NoError(t, err)

	r := New(s)
	ledger, err := r.AccountLedger(ctx, acc.ID, 50, 1)
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 2)
	assert.True(t, ledger.CurrentBalance.Equal(decimal.NewFromInt(30)))

	// Entries are newest-first; the running balance of the oldest page
	// entry must equal the full deposited amount so far.
	last := ledger.Entries[len(ledger.Entries)-1]
	assert.True(t, last.RunningBalance.Equal(decimal.NewFromInt(10)))
}

func TestAccountStatementSummarizesPeriod(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)

	e := engine.New(s)
	_, err = e.Deposit(ctx, acc.ID, decimal.NewFromInt(40), "seed")
	require.NoError(t, err)

	r := New(s)
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	statement, err := r.AccountStatement(ctx, acc.ID, start, end)
	require.NoError(t, err)
	assert.True(t, statement.OpeningBalance.IsZero())
	assert.True(t, statement.ClosingBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 1, statement.EntryCount)
}
