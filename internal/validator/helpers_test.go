package validator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wallet-core/internal/domain/models"
	"wallet-core/internal/ledger"
	"wallet-core/internal/store"
)

// credit funds accountID via a system credit, bypassing the engine so
// validator tests don't depend on it.
func credit(t *testing.T, s store.Store, accountID uuid.UUID, amount decimal.Decimal) {
	t.Helper()
	recorder := ledger.New()
	account, err := s.GetAccount(context.Background(), accountID)
	require.NoError(t, err)

	err = s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := recorder.RecordSystemCredit(ctx, tx, accountID, amount, account.Currency, "test funding")
		return err
	})
	require.NoError(t, err)
}

// seedTransaction writes a completed transaction row directly, for
// tests exercising reference-based idempotency lookups.
func seedTransaction(t *testing.T, s store.Store, from, to uuid.UUID, amount decimal.Decimal, reference *string) models.Transaction {
	t.Helper()
	account, err := s.GetAccount(context.Background(), from)
	require.NoError(t, err)

	txn := models.Transaction{
		ID:          uuid.New(),
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Currency:    account.Currency,
		Type:        models.Transfer,
		Reference:   reference,
		Status:      models.StatusSuccess,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.SaveTransaction(ctx, txn)
	})
	require.NoError(t, err)
	return txn
}
