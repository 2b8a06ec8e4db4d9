package validator

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/store/memory"
)

func newAccounts(t *testing.T, s *memory.Store, currencies ...string) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, len(currencies))
	for i, cur := range currencies {
		acc, err := s.CreateAccount(context.Background(), cur, "MAIN")
		require.NoError(t, err)
		ids[i] = acc.ID
	}
	return ids
}

func TestValidateTransferRejectsNonPositiveAmount(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "USD")
	v := New(s)

	_, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.Zero, nil)
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindNonPositiveAmount, invalid.Kind)
}

func TestValidateTransferRejectsSelfTransfer(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD")
	v := New(s)

	_, err := v.ValidateTransfer(context.Background(), ids[0], ids[0], decimal.NewFromInt(10), nil)
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindSelfTransfer, invalid.Kind)
}

func TestValidateTransferRejectsUnknownAccount(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD")
	v := New(s)

	_, err := v.ValidateTransfer(context.Background(), ids[0], uuid.New(), decimal.NewFromInt(10), nil)
	var notFound domainerrors.AccountNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestValidateTransferRejectsCurrencyMismatch(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "EUR")
	v := New(s)

	_, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.NewFromInt(10), nil)
	var mismatch domainerrors.CurrencyMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestValidateTransferRejectsInsufficientFunds(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "USD")
	v := New(s)

	_, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.NewFromInt(10), nil)
	var insufficient domainerrors.InsufficientFunds
	require.ErrorAs(t, err, &insufficient)
}

func TestValidateTransferAcceptsWellFundedRequest(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "USD")
	credit(t, s, ids[0], decimal.NewFromInt(100))
	v := New(s)

	result, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.NewFromInt(50), nil)
	require.NoError(t, err)
	assert.Equal(t, ids[0], result.From.ID)
	assert.Equal(t, ids[1], result.To.ID)
	assert.Nil(t, result.Existing)
}

func TestValidateTransferDuplicateReferenceSameParamsIsIdempotent(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "USD")
	credit(t, s, ids[0], decimal.NewFromInt(100))
	v := New(s)
	ref := "order-42"

	// Seed a completed transaction under that reference.
	existing := seedTransaction(t, s, ids[0], ids[1], decimal.NewFromInt(30), &ref)

	result, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.NewFromInt(30), &ref)
	require.NoError(t, err)
	require.NotNil(t, result.Existing)
	assert.Equal(t, existing.ID, result.Existing.ID)
}

func TestValidateTransferDuplicateReferenceDifferentParamsFails(t *testing.T) {
	s := memory.New()
	ids := newAccounts(t, s, "USD", "USD")
	credit(t, s, ids[0], decimal.NewFromInt(100))
	v := New(s)
	ref := "order-42"

	seedTransaction(t, s, ids[0], ids[1], decimal.NewFromInt(30), &ref)

	_, err := v.ValidateTransfer(context.Background(), ids[0], ids[1], decimal.NewFromInt(31), &ref)
	var invalid domainerrors.InvalidTransaction
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domainerrors.KindDuplicateReference, invalid.Kind)
}
