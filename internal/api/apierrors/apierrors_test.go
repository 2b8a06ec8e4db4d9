package apierrors

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/store"
)

func TestMapClassifiesDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"account not found", domainerrors.AccountNotFound{ID: uuid.New()}, http.StatusNotFound},
		{"currency mismatch", domainerrors.CurrencyMismatch{From: "USD", To: "EUR"}, http.StatusUnprocessableEntity},
		{"insufficient funds", domainerrors.InsufficientFunds{AccountID: uuid.New(), Reason: "x"}, http.StatusUnprocessableEntity},
		{"invalid transaction", domainerrors.InvalidTransaction{Kind: domainerrors.KindNonPositiveAmount}, http.StatusBadRequest},
		{"duplicate reference", domainerrors.InvalidTransaction{Kind: domainerrors.KindDuplicateReference}, http.StatusConflict},
		{"store not found", store.ErrNotFound, http.StatusNotFound},
		{"store reference conflict", store.ErrReferenceConflict, http.StatusConflict},
		{"store serialization failure", store.ErrSerializationFailure, http.StatusConflict},
		{"unknown error", assertErr{}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := Map(tc.err, "/test")
			assert.Equal(t, tc.status, env.Status)
			assert.Equal(t, "/test", env.Path)
		})
	}
}

func TestMapValidationCarriesFieldErrors(t *testing.T) {
	env := MapValidation("/accounts", map[string]string{"currency": "required"})
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "required", env.FieldErrors["currency"])
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
