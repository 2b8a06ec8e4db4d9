// Package engine implements the transfer engine (C4): it orchestrates
// a single transfer from idempotency lookup through ordered locking,
// re-validation, ledger recording, and commit. Engine is stateless
// (aside from its Store/Validator/Recorder collaborators) and safe
// for concurrent use; every public method may block on row-lock
// acquisition or database I/O.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/domain/models"
	"wallet-core/internal/ledger"
	"wallet-core/internal/store"
	"wallet-core/internal/validator"
)

// DefaultTxTimeout bounds the transactional section of a Transfer, per
// the operation-level timeout budget.
const DefaultTxTimeout = 15 * time.Second

// Engine drives transfers and system credits to a terminal state.
type Engine struct {
	store    store.Store
	validate *validator.Validator
	recorder *ledger.Recorder
	now      func() time.Time
}

// New constructs an Engine bound to a Store.
func New(s store.Store) *Engine {
	return &Engine{
		store:    s,
		validate: validator.New(s),
		recorder: ledger.New(),
		now:      time.Now,
	}
}

// Transfer drives a single transfer request to a terminal state:
// idempotency lookup -> pre-validation -> ordered locking ->
// re-validation under lock -> balanced ledger append -> commit. A
// reference collision with a prior transfer's different parameters
// fails with InvalidTransaction(duplicate reference); a reference
// match with identical parameters returns the existing Transaction
// unchanged without touching the ledger again.
func (e *Engine) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, reference, description *string) (models.Transaction, error) {
	result, err := e.validate.ValidateTransfer(ctx, fromID, toID, amount, reference)
	if err != nil {
		return models.Transaction{}, err
	}
	if result.Existing != nil {
		return *result.Existing, nil
	}

	txn := models.Transaction{
		ID:          uuid.New(),
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		Currency:    result.From.Currency,
		Type:        models.Transfer,
		Reference:   reference,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   e.now().UTC(),
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTxTimeout)
	defer cancel()

	err = e.store.WithTx(txCtx, func(ctx context.Context, tx store.Tx) error {
		first, second := fromID, toID
		if !lessByID(first, second) {
			first, second = second, first
		}

		lockedFirst, err := tx.GetAccountForUpdate(ctx, first)
		if err != nil {
			return domainerrors.AccountNotFound{ID: first}
		}
		lockedSecond, err := tx.GetAccountForUpdate(ctx, second)
		if err != nil {
			return domainerrors.AccountNotFound{ID: second}
		}

		from, to := lockedFirst, lockedSecond
		if first != fromID {
			from, to = lockedSecond, lockedFirst
		}

		if err := e.validate.RevalidateUnderLock(ctx, tx, from, to, amount); err != nil {
			return err
		}

		if err := tx.SaveTransaction(ctx, txn); err != nil {
			return err
		}

		if err := e.recorder.RecordTransfer(ctx, tx, txn); err != nil {
			return err
		}

		txn.Status = models.StatusSuccess
		return tx.UpdateTransactionStatus(ctx, txn.ID, models.StatusSuccess, nil)
	})

	if err != nil {
		// The Open Question on FAILED persistence (SPEC_FULL §9) is
		// resolved as: observable state on failure is {no entries, no
		// Transaction}. The database transaction above already rolled
		// back, so nothing further is persisted here; the reference
		// stays free for a subsequent successful retry.
		return models.Transaction{}, err
	}

	return txn, nil
}

// Deposit credits accountID from the system funding account,
// recording a DEPOSIT transaction and its balanced entry pair. It
// reuses the engine's locking and persistence machinery rather than a
// separate code path.
func (e *Engine) Deposit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Transaction{}, domainerrors.InvalidTransaction{Kind: domainerrors.KindNonPositiveAmount, Detail: "deposit amount must be positive"}
	}

	account, err := e.store.GetAccount(ctx, accountID)
	if err != nil {
		return models.Transaction{}, domainerrors.AccountNotFound{ID: accountID}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTxTimeout)
	defer cancel()

	var txn models.Transaction
	err = e.store.WithTx(txCtx, func(ctx context.Context, tx store.Tx) error {
		recorded, err := e.recorder.RecordSystemCredit(ctx, tx, accountID, amount, account.Currency, description)
		if err != nil {
			return err
		}
		txn = recorded
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// lessByID implements the deterministic lock order (§4.4 step 5):
// lexicographic comparison of the two account ids' canonical string
// form. This total order over all concurrent transfers eliminates
// lock-cycle deadlocks by construction, since every transfer requests
// locks in the same order regardless of which side initiated it.
func lessByID(a, b uuid.UUID) bool {
	return strings.Compare(a.String(), b.String()) < 0
}
