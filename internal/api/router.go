package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api/handler"
	"github.com/portfolio-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	assetHandler *handler.AssetHandler,
	transactionHandler *handler.TransactionHandler,
	balanceHandler *handler.BalanceHandler,
	priceHandler *handler.PriceHandler,
) {
	// Correlation first: recovery and request logging both tag their output
	// with the request's id.
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints; every route requires a caller identity
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		// Portfolio account operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Delete)
			accounts.GET("/:id/balances", balanceHandler.ListByAccount)
			accounts.GET("/:id/balances/:assetId", balanceHandler.Get)
			accounts.GET("/:id/balances/:assetId/verify", balanceHandler.Verify)
		}

		// Asset operations
		assets := v1.Group("/assets")
		{
			assets.POST("", assetHandler.Create)
			assets.GET("", assetHandler.List)
			assets.GET("/:id", assetHandler.GetByID)
			assets.PUT("/:id", assetHandler.Update)
			assets.DELETE("/:id", assetHandler.Delete)
			assets.GET("/:id/prices", priceHandler.List)
			assets.GET("/:id/prices/quote", priceHandler.Get)
			assets.POST("/:id/prices", priceHandler.Set)
			assets.POST("/:id/prices/fetch", priceHandler.Fetch)
		}

		// Accounting currency selection
		v1.GET("/accounting-currency", assetHandler.GetAccountingCurrency)
		v1.PUT("/accounting-currency", assetHandler.SetAccountingCurrency)

		// Ledger transaction operations
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.DELETE("/:id", transactionHandler.Delete)

			transactions.POST("/capital", transactionHandler.RecordCapital)
			transactions.PUT("/capital/:id", transactionHandler.UpdateCapital)
			transactions.POST("/income", transactionHandler.RecordIncome)
			transactions.PUT("/income/:id", transactionHandler.UpdateIncome)
			transactions.POST("/transfers", transactionHandler.RecordTransfer)
			transactions.PUT("/transfers/:id", transactionHandler.UpdateTransfer)
			transactions.POST("/trades", transactionHandler.RecordTrade)
			transactions.PUT("/trades/:id", transactionHandler.UpdateTrade)
		}

		// Holdings across all accounts
		v1.GET("/balances", balanceHandler.ListByUser)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
