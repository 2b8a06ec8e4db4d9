// Package routes wires the HTTP façade's handlers and middleware onto
// a gin.Engine, the way the teacher's diplomat/routes package does.
package routes

import (
	"github.com/gin-gonic/gin"

	"wallet-core/internal/api/handlers"
	"wallet-core/internal/api/middleware"
	"wallet-core/internal/config"
	"wallet-core/internal/ratelimit"
)

// Register mounts every route of the wallet API onto router, backed
// by deps.
func Register(router *gin.Engine, deps handlers.Dependencies, cfg *config.Config, limiter *ratelimit.Limiter) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimit(limiter))

	router.POST("/accounts", handlers.MakeCreateAccountHandler(deps))
	router.GET("/accounts/:id/balance", handlers.MakeGetBalanceHandler(deps))
	router.GET("/accounts/:id/transactions", handlers.MakeListTransactionsHandler(deps))
	router.POST("/accounts/:id/deposit", handlers.MakeDepositHandler(deps))

	router.POST("/transfers", handlers.MakeTransferHandler(deps))
	router.GET("/transactions/reference/:ref", handlers.MakeGetTransactionByReferenceHandler(deps))

	router.GET("/reports/transactions/:id", handlers.MakeTransactionHistoryHandler(deps))
	router.GET("/reports/accounts/:id/ledger", handlers.MakeAccountLedgerHandler(deps))
	router.GET("/reports/accounts/:id/statement", handlers.MakeAccountStatementHandler(deps))

	router.GET("/healthz", handlers.MakeHealthHandler(deps))
}
