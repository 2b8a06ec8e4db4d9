package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-core/internal/api/apierrors"
	"wallet-core/internal/events"
	"wallet-core/internal/logging"
	"wallet-core/internal/metrics"
)

type depositRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// MakeDepositHandler handles POST /accounts/{id}/deposit, crediting
// the account from the system funding account.
func MakeDepositHandler(deps Dependencies) gin.HandlerFunc {
	eng := deps.GetEngine()
	publisher := deps.GetEventPublisher()

	return func(c *gin.Context) {
		accountID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		var req depositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"body": err.Error()})
			c.JSON(env.Status, env)
			return
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"amount": "must be a decimal string"})
			c.JSON(env.Status, env)
			return
		}

		txn, err := eng.Deposit(c.Request.Context(), accountID, amount, req.Description)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		metrics.DepositsTotal.Inc()

		if pubErr := publisher.PublishDepositCompleted(events.DepositCompletedEvent{
			TransactionID: txn.ID,
			AccountID:     accountID,
			Amount:        txn.Amount.String(),
			Currency:      string(txn.Currency),
			Timestamp:     time.Now().UTC(),
		}); pubErr != nil {
			logging.Error("failed to publish deposit completed event", pubErr, map[string]interface{}{"transaction_id": txn.ID})
		}

		c.JSON(http.StatusOK, gin.H{
			"id":       txn.ID,
			"account":  accountID,
			"amount":   txn.Amount,
			"currency": txn.Currency,
			"status":   txn.Status,
		})
	}
}
