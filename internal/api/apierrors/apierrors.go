// Package apierrors maps the domain's typed errors onto the HTTP
// error envelope every handler returns, the way the teacher's
// src/errors package mapped banking errors onto APIError.
package apierrors

import (
	"errors"
	"net/http"
	"time"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/store"
)

// Envelope is the wire shape of every non-2xx response.
type Envelope struct {
	Status      int               `json:"status"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// Map translates err into an HTTP status and Envelope for path.
func Map(err error, path string) Envelope {
	status, message := classify(err)
	return Envelope{Status: status, Message: message, Timestamp: time.Now().UTC(), Path: path}
}

// MapValidation builds a 400 envelope carrying per-field errors.
func MapValidation(path string, fieldErrors map[string]string) Envelope {
	return Envelope{
		Status:      http.StatusBadRequest,
		Message:     "request validation failed",
		Timestamp:   time.Now().UTC(),
		Path:        path,
		FieldErrors: fieldErrors,
	}
}

func classify(err error) (int, string) {
	var accountNotFound domainerrors.AccountNotFound
	if errors.As(err, &accountNotFound) {
		return http.StatusNotFound, accountNotFound.Error()
	}

	var currencyMismatch domainerrors.CurrencyMismatch
	if errors.As(err, &currencyMismatch) {
		return http.StatusUnprocessableEntity, currencyMismatch.Error()
	}

	var insufficientFunds domainerrors.InsufficientFunds
	if errors.As(err, &insufficientFunds) {
		return http.StatusUnprocessableEntity, insufficientFunds.Error()
	}

	var invalidTransaction domainerrors.InvalidTransaction
	if errors.As(err, &invalidTransaction) {
		if invalidTransaction.Kind == domainerrors.KindDuplicateReference {
			return http.StatusConflict, invalidTransaction.Error()
		}
		return http.StatusBadRequest, invalidTransaction.Error()
	}

	var balanceVerification domainerrors.BalanceVerification
	if errors.As(err, &balanceVerification) {
		return http.StatusInternalServerError, balanceVerification.Error()
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, store.ErrReferenceConflict):
		return http.StatusConflict, "reference already used for a different transaction"
	case errors.Is(err, store.ErrSerializationFailure):
		return http.StatusConflict, "transient conflict, please retry"
	}

	return http.StatusInternalServerError, "internal server error"
}
