package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wallet-core/internal/api/apierrors"
)

// MakeGetTransactionByReferenceHandler handles GET /transactions/reference/{ref}.
func MakeGetTransactionByReferenceHandler(deps Dependencies) gin.HandlerFunc {
	s := deps.GetStore()
	return func(c *gin.Context) {
		ref := c.Param("ref")
		if ref == "" {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"ref": "must not be empty"})
			c.JSON(env.Status, env)
			return
		}

		txn, err := s.FindTransactionByReferenceIgnoreCase(c.Request.Context(), ref)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
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

// MakeTransactionHistoryHandler handles GET /reports/transactions/{id}.
func MakeTransactionHistoryHandler(deps Dependencies) gin.HandlerFunc {
	rep := deps.GetReporter()
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		history, err := rep.TransactionHistory(c.Request.Context(), id)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"transaction": history.Transaction,
			"entries":     history.Entries,
		})
	}
}

// MakeAccountLedgerHandler handles GET /reports/accounts/{id}/ledger.
func MakeAccountLedgerHandler(deps Dependencies) gin.HandlerFunc {
	rep := deps.GetReporter()
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		pageSize := queryInt(c, "pageSize", 50)
		pageNumber := queryInt(c, "pageNumber", 1)

		ledger, err := rep.AccountLedger(c.Request.Context(), id, pageSize, pageNumber)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"entries":         ledger.Entries,
			"current_balance": ledger.CurrentBalance,
		})
	}
}

// MakeAccountStatementHandler handles GET /reports/accounts/{id}/statement.
func MakeAccountStatementHandler(deps Dependencies) gin.HandlerFunc {
	rep := deps.GetReporter()
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			env := apierrors.MapValidation(c.FullPath(), map[string]string{"id": "must be a valid UUID"})
			c.JSON(env.Status, env)
			return
		}

		fieldErrors := map[string]string{}
		start, err := parseTimeParam(c, "start")
		if err != nil {
			fieldErrors["start"] = "must be an RFC3339 timestamp"
		}
		end, err2 := parseTimeParam(c, "end")
		if err2 != nil {
			fieldErrors["end"] = "must be an RFC3339 timestamp"
		}
		if len(fieldErrors) > 0 {
			env := apierrors.MapValidation(c.FullPath(), fieldErrors)
			c.JSON(env.Status, env)
			return
		}
		if end.IsZero() {
			end = time.Now().UTC()
		}

		statement, err := rep.AccountStatement(c.Request.Context(), id, start, end)
		if err != nil {
			env := apierrors.Map(err, c.FullPath())
			c.JSON(env.Status, env)
			return
		}

		c.JSON(http.StatusOK, statement)
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseTimeParam(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
