package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/api/apierrors"
	domainerrors "wallet-core/internal/domain/errors"
	"wallet-core/internal/events"
	"wallet-core/internal/logging"
	"wallet-core/internal/metrics"
)

type transferRequest struct {
	From        string  `json:"from" binding:"required"`
	To          string  `json:"to" binding:"required"`
	Amount      string  `json:"amount" binding:"required"`
	Reference   *string `json:"reference"`
	Description *string `json:"description"`
}

// MakeTransferHandler handles POST /transfers.
func MakeTransferHandler(deps Dependencies) gin.HandlerFunc {
	eng := deps.GetEngine()
	publisher := deps.GetEventPublisher()

	return func(c *gin.Context) {
		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"body": err.Error()})
			c.JSON(env.Status, env)
			return
		}

		fieldErrors := map[string]string{}
		fromID, err := uuid.Parse(req.From)
		if err != nil {
			fieldErrors["from"] = "must be a valid UUID"
		}
		toID, err2 := uuid.Parse(req.To)
		if err2 != nil {
			fieldErrors["to"] = "must be a valid UUID"
		}
		amount, err3 := decimal.NewFromString(req.Amount)
		if err3 != nil {
			fieldErrors["amount"] = "must be a decimal string"
		}
		if len(fieldErrors) > 0 {
			env := apierrors.MapValidation(c.FullPath(), fieldErrors)
			c.JSON(env.Status, env)
			return
		}

		txn, err := eng.Transfer(c.Request.Context(), fromID, toID, amount, req.Reference, req.Description)
		if err != nil {
			outcome := outcomeLabel(err)
			metrics.RecordTransferOutcome(outcome, 0)

			if pubErr := publisher.PublishTransactionFailed(events.TransactionFailedEvent{
				FromAccountID: fromID,
				ToAccountID:   toID,
				Amount:        req.Amount,
				Reason:        err.Error(),
				Timestamp:     time.Now().UTC(),
			}); pubErr != nil {
				logging.Error("failed to publish transaction failed event", pubErr, nil)
			}

			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		amountFloat, _ := amount.Float64()
		metrics.RecordTransferOutcome("success", amountFloat)

		if pubErr := publisher.PublishTransferCompleted(events.TransferCompletedEvent{
			TransactionID: txn.ID,
			FromAccountID: txn.FromAccount,
			ToAccountID:   txn.ToAccount,
			Amount:        txn.Amount.String(),
			Currency:      string(txn.Currency),
			Reference:     txn.Reference,
			Timestamp:     time.Now().UTC(),
		}); pubErr != nil {
			logging.Error("failed to publish transfer completed event", pubErr, map[string]interface{}{"transaction_id": txn.ID})
		}

		c.JSON(http.StatusOK, gin.H{
			"id":          txn.ID,
			"from":        txn.FromAccount,
			"to":          txn.ToAccount,
			"amount":      txn.Amount,
			"currency":    txn.Currency,
			"status":      txn.Status,
			"reference":   txn.Reference,
			"description": txn.Description,
			"created_at":  txn.CreatedAt,
		})
	}
}

func outcomeLabel(err error) string {
	var insufficientFunds domainerrors.InsufficientFunds
	if errors.As(err, &insufficientFunds) {
		return "insufficient_funds"
	}
	var currencyMismatch domainerrors.CurrencyMismatch
	if errors.As(err, &currencyMismatch) {
		return "currency_mismatch"
	}
	var invalidTransaction domainerrors.InvalidTransaction
	if errors.As(err, &invalidTransaction) {
		if invalidTransaction.Kind == domainerrors.KindDuplicateReference {
			return "duplicate_reference"
		}
		return "invalid"
	}
	var accountNotFound domainerrors.AccountNotFound
	if errors.As(err, &accountNotFound) {
		return "account_not_found"
	}
	return "error"
}
