package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/domain/models"
	"wallet-core/internal/store"
	"wallet-core/internal/store/memory"
)

func newFundedPair(t *testing.T, s store.Store, currency string, fromBalance decimal.Decimal) (models.Account, models.Account) {
	t.Helper()
	ctx := context.Background()
	from, err := s.CreateAccount(ctx, currency, "MAIN")
	require.NoError(t, err)
	to, err := s.CreateAccount(ctx, currency, "MAIN")
	require.NoError(t, err)

	if fromBalance.GreaterThan(decimal.Zero) {
		e := New(s)
		_, err := e.Deposit(ctx, from.ID, fromBalance, "seed")
		require.NoError(t, err)
	}
	return from, to
}

func TestTransferMovesFundsBetweenAccounts(t *testing.T) {
	s := memory.New()
	from, to := newFundedPair(t, s, "USD", decimal.NewFromInt(100))
	e := New(s)

	txn, err := e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(30), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, txn.Status)

	fromBalance, err := s.CalculateBalance(context.Background(), from.ID)
	require.NoError(t, err)
	toBalance, err := s.CalculateBalance(context.Background(), to.ID)
	require.NoError(t, err)

	assert.True(t, fromBalance.Equal(decimal.NewFromInt(70)))
	assert.True(t, toBalance.Equal(decimal.NewFromInt(30)))
}

func TestTransferFailsOnInsufficientFunds(t *testing.T) {
	s := memory.New()
	from, to := newFundedPair(t, s, "USD", decimal.NewFromInt(10))
	e := New(s)

	_, err := e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(50), nil, nil)
	var insufficient domainerrors.InsufficientFunds
	require.ErrorAs(t, err, &insufficient)

	fromBalance, err := s.CalculateBalance(context.Background(), from.ID)
	require.NoError(t, err)
	assert.True(t, fromBalance.Equal(decimal.NewFromInt(10)), "failed transfer must not touch the ledger")
}

func TestTransferRejectsSelfTransfer(t *testing.T) {
	s := memory.New()
	from, _ := newFundedPair(t, s, "USD", decimal.NewFromInt(10))
	e := New(s)

	_, err := e.Transfer(context.Background(), from.ID, from.ID, decimal.NewFromInt(1), nil, nil)
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindSelfTransfer, invalid.Kind)
}

func TestTransferRejectsCurrencyMismatch(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	from, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)
	to, err := s.CreateAccount(ctx, "EUR", "MAIN")
	require.NoError(t, err)
	e := New(s)

	_, err = e.Transfer(ctx, from.ID, to.ID, decimal.NewFromInt(1), nil, nil)
	var mismatch domainerrors.CurrencyMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestTransferWithReferenceIsIdempotent(t *testing.T) {
	s := memory.New()
	from, to := newFundedPair(t, s, "USD", decimal.NewFromInt(100))
	e := New(s)
	ref := "ORDER-1"

	first, err := e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(30), &ref, nil)
	require.NoError(t, err)

	second, err := e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(30), &ref, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	toBalance, err := s.CalculateBalance(context.Background(), to.ID)
	require.NoError(t, err)
	assert.True(t, toBalance.Equal(decimal.NewFromInt(30)), "replay must not double-apply")
}

func TestTransferWithConflictingReferenceFails(t *testing.T) {
	s := memory.New()
	from, to := newFundedPair(t, s, "USD", decimal.NewFromInt(100))
	e := New(s)
	ref := "ORDER-2"

	_, err := e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(30), &ref, nil)
	require.NoError(t, err)

	_, err = e.Transfer(context.Background(), from.ID, to.ID, decimal.NewFromInt(31), &ref, nil)
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindDuplicateReference, invalid.Kind)
}

func TestDepositCreditsAccountFromSystemFunding(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)
	e := New(s)

	txn, err := e.Deposit(ctx, acc.ID, decimal.NewFromInt(50), "top-up")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, txn.Status)
	assert.Equal(t, models.Deposit, txn.Type)

	balance, err := s.CalculateBalance(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)))
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	acc, err := s.CreateAccount(ctx, "USD", "MAIN")
	require.NoError(t, err)
	e := New(s)

	_, err = e.Deposit(ctx, acc.ID, decimal.NewFromInt(-1), "bad")
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindNonPositiveAmount, invalid.Kind)
}
