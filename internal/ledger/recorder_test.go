package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/store"
	"wallet-core/internal/store/memory"
)

func createAccount(t *testing.T, s store.Store, currency string) models.Account {
	t.Helper()
	acc, err := s.CreateAccount(context.Background(), currency, "MAIN")
	require.NoError(t, err)
	return acc
}

func TestRecordTransferIsBalanced(t *testing.T) {
	s := memory.New()
	from := createAccount(t, s, "USD")
	to := createAccount(t, s, "USD")
	r := New()

	// Fund `from` via a system credit first.
	err := s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := r.RecordSystemCredit(ctx, tx, from.ID, decimal.NewFromInt(100), types.Currency("USD"), "seed")
		return err
	})
	require.NoError(t, err)

	txn := models.Transaction{
		ID:          uuid.New(),
		FromAccount: from.ID,
		ToAccount:   to.ID,
		Amount:      decimal.NewFromInt(40),
		Currency:    types.Currency("USD"),
		Type:        models.Transfer,
	}

	err = s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return r.RecordTransfer(ctx, tx, txn)
	})
	require.NoError(t, err)

	fromBalance, err := r.Balance(context.Background(), s, from.ID)
	require.NoError(t, err)
	toBalance, err := r.Balance(context.Background(), s, to.ID)
	require.NoError(t, err)

	assert.True(t, fromBalance.Equal(decimal.NewFromInt(60)))
	assert.True(t, toBalance.Equal(decimal.NewFromInt(40)))
}

func TestRecordTransferReplayIsIdempotent(t *testing.T) {
	s := memory.New()
	from := createAccount(t, s, "USD")
	to := createAccount(t, s, "USD")
	r := New()

	err := s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := r.RecordSystemCredit(ctx, tx, from.ID, decimal.NewFromInt(100), types.Currency("USD"), "seed")
		return err
	})
	require.NoError(t, err)

	txn := models.Transaction{
		ID:          uuid.New(),
		FromAccount: from.ID,
		ToAccount:   to.ID,
		Amount:      decimal.NewFromInt(40),
		Currency:    types.Currency("USD"),
		Type:        models.Transfer,
	}

	record := func() error {
		return s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
			return r.RecordTransfer(ctx, tx, txn)
		})
	}

	require.NoError(t, record())
	require.NoError(t, record()) // second call must not double-apply

	toBalance, err := r.Balance(context.Background(), s, to.ID)
	require.NoError(t, err)
	assert.True(t, toBalance.Equal(decimal.NewFromInt(40)))
}

func TestRecordSystemCreditRejectsNonPositiveAmount(t *testing.T) {
	s := memory.New()
	acc := createAccount(t, s, "USD")
	r := New()

	err := s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := r.RecordSystemCredit(ctx, tx, acc.ID, decimal.Zero, types.Currency("USD"), "bad")
		return err
	})
	assert.Error(t, err)
}

func TestVerifyAccountBalanceDetectsMismatch(t *testing.T) {
	s := memory.New()
	acc := createAccount(t, s, "USD")
	r := New()

	err := s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := r.RecordSystemCredit(ctx, tx, acc.ID, decimal.NewFromInt(10), types.Currency("USD"), "seed")
		return err
	})
	require.NoError(t, err)

	err = r.VerifyAccountBalance(context.Background(), s, acc, decimal.NewFromInt(999))
	assert.Error(t, err)

	err = r.VerifyAccountBalance(context.Background(), s, acc, decimal.NewFromInt(10))
	assert.NoError(t, err)
}
