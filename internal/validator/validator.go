// Package validator implements the transfer engine's pre-lock checks
// (C3): pure validation that never mutates state and returns the
// validated entities so the engine does not need to re-fetch them.
package validator

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/domain/models"
	"wallet-core/internal/store"
)

// Validator centralizes every pre-lock check the transfer engine runs
// before acquiring row locks. It is stateless and safe for concurrent use.
type Validator struct {
	s store.Store
}

// New constructs a Validator bound to a Store for reference and
// account lookups.
func New(s store.Store) *Validator {
	return &Validator{s: s}
}

// Result is the outcome of pre-validating a transfer request. If
// Existing is non-nil, an idempotent match was found and the engine
// must return it unchanged without acquiring locks or writing anything.
type Result struct {
	From     models.Account
	To       models.Account
	Existing *models.Transaction
}

// ValidateTransfer runs its checks in this order: shape, existence,
// currency match, reference idempotency, and withdrawal policy. An
// idempotent reference match returns before the withdrawal policy is
// checked.
func (v *Validator) ValidateTransfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, reference *string) (Result, error) {
	if fromID == uuid.Nil || toID == uuid.Nil {
		return Result{}, domainerrors.InvalidTransaction{Kind: domainerrors.KindMissingField, Detail: "from/to account id required"}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Result{}, domainerrors.InvalidTransaction{Kind: domainerrors.KindNonPositiveAmount, Detail: "amount must be positive"}
	}
	if fromID == toID {
		return Result{}, domainerrors.InvalidTransaction{Kind: domainerrors.KindSelfTransfer, Detail: "source and destination accounts must differ"}
	}

	from, err := v.s.GetAccount(ctx, fromID)
	if err != nil {
		return Result{}, domainerrors.AccountNotFound{ID: fromID}
	}
	to, err := v.s.GetAccount(ctx, toID)
	if err != nil {
		return Result{}, domainerrors.AccountNotFound{ID: toID}
	}

	if from.Currency != to.Currency {
		return Result{}, domainerrors.CurrencyMismatch{From: string(from.Currency), To: string(to.Currency)}
	}

	if reference != nil && *reference != "" {
		existing, found, err := v.matchReference(ctx, *reference, from, to, amount)
		if err != nil {
			return Result{}, err
		}
		if found {
			return Result{From: from, To: to, Existing: existing}, nil
		}
	}

	if err := v.checkWithdrawalPolicy(ctx, from, amount); err != nil {
		return Result{}, err
	}

	return Result{From: from, To: to}, nil
}

// matchReference looks up an existing transaction by case-insensitive
// reference. If one exists and matches (from, to, amount) exactly, it
// is returned as the idempotent result. If one exists with different
// parameters, InvalidTransaction(duplicate reference) is returned.
func (v *Validator) matchReference(ctx context.Context, reference string, from, to models.Account, amount decimal.Decimal) (*models.Transaction, bool, error) {
	existing, err := v.s.FindTransactionByReferenceIgnoreCase(ctx, reference)
	if err == store.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if existing.FromAccount == from.ID && existing.ToAccount == to.ID && existing.Amount.Equal(amount) {
		e := existing
		return &e, true, nil
	}
	return nil, false, domainerrors.InvalidTransaction{
		Kind:   domainerrors.KindDuplicateReference,
		Detail: "reference already used for a different (from, to, amount)",
	}
}

// checkWithdrawalPolicy re-derives from's balance and checks it
// against the account type's withdrawal policy.
func (v *Validator) checkWithdrawalPolicy(ctx context.Context, from models.Account, amount decimal.Decimal) error {
	balance, err := v.s.CalculateBalance(ctx, from.ID)
	if err != nil {
		return err
	}
	if !from.Type.CanWithdraw(balance, amount) {
		return domainerrors.InsufficientFunds{
			AccountID: from.ID,
			Reason:    "amount exceeds account type's maximum withdrawal",
		}
	}
	return nil
}

// RevalidateUnderLock repeats the currency and sufficient-funds checks
// using the just-locked accounts and a fresh balance read. It is called
// by the engine after acquiring row locks, to close the race window
// between pre-validation and lock acquisition.
func (v *Validator) RevalidateUnderLock(ctx context.Context, tx store.Tx, from, to models.Account, amount decimal.Decimal) error {
	if from.Currency != to.Currency {
		return domainerrors.CurrencyMismatch{From: string(from.Currency), To: string(to.Currency)}
	}

	debit, err := tx.SumByAccountAndType(ctx, from.ID, models.Debit)
	if err != nil {
		return err
	}
	credit, err := tx.SumByAccountAndType(ctx, from.ID, models.Credit)
	if err != nil {
		return err
	}
	balance := credit.Sub(debit)

	if !from.Type.CanWithdraw(balance, amount) {
		return domainerrors.InsufficientFunds{
			AccountID: from.ID,
			Reason:    "amount exceeds account type's maximum withdrawal",
		}
	}
	return nil
}
