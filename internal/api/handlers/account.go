package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wallet-core/internal/api/apierrors"
	"wallet-core/internal/domain/types"
	"wallet-core/internal/events"
	"wallet-core/internal/logging"
)

type createAccountRequest struct {
	Currency string `json:"currency" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

// MakeCreateAccountHandler handles POST /accounts.
func MakeCreateAccountHandler(deps Dependencies) gin.HandlerFunc {
	publisher := deps.GetEventPublisher()
	s := deps.GetStore()

	return func(c *gin.Context) {
		var req createAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"body": err.Error()})
			c.JSON(env.Status, env)
			return
		}

		if _, err := types.ParseCurrency(req.Currency); err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"currency": "unsupported currency code"})
			c.JSON(env.Status, env)
			return
		}

		accountType := types.AccountType(req.Type)
		if !accountType.Valid() {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"type": "unsupported account type"})
			c.JSON(env.Status, env)
			return
		}

		account, err := s.CreateAccount(c.Request.Context(), req.Currency, req.Type)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		if err := publisher.PublishAccountCreated(events.AccountCreatedEvent{
			AccountID: account.ID,
			Currency:  string(account.Currency),
			Type:      string(account.Type),
			Timestamp: time.Now().UTC(),
		}); err != nil {
			logging.Error("failed to publish account created event", err, map[string]interface{}{"account_id": account.ID})
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         account.ID,
			"currency":   account.Currency,
			"type":       account.Type,
			"created_at": account.CreatedAt,
		})
	}
}

// MakeGetBalanceHandler handles GET /accounts/{id}/balance.
func MakeGetBalanceHandler(deps Dependencies) gin.HandlerFunc {
	s := deps.GetStore()
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		account, err := s.GetAccount(c.Request.Context(), id)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		balance, err := s.CalculateBalance(c.Request.Context(), id)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":       account.ID,
			"currency": account.Currency,
			"type":     account.Type,
			"balance":  balance,
		})
	}
}

// MakeListTransactionsHandler handles GET /accounts/{id}/transactions.
func MakeListTransactionsHandler(deps Dependencies) gin.HandlerFunc {
	s := deps.GetStore()
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		if _, err := s.GetAccount(c.Request.Context(), id); err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		txns, err := s.ListTransactionsForAccount(c.Request.Context(), id)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		c.JSON(http.StatusOK, gin.H{"transactions": txns})
	}
}
