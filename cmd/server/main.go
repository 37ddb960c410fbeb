package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panjf2000/ants/v2"
	"github.com/portfolio-ledger/internal/api"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/data/postgres"
	"github.com/portfolio-ledger/internal/logger"
	"github.com/portfolio-ledger/internal/platform/persistence"
	"github.com/portfolio-ledger/internal/pricing"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("server")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Worker pool for the ledger pre-creation fanout
	pool, err := ants.NewPool(cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to create worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	assetRepo := postgres.NewAssetRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	entryRepo := postgres.NewEntryRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	balanceRepo := postgres.NewBalanceRepository(log, postgresDB)
	priceRepo := postgres.NewPriceRepository(log, postgresDB)

	// Initialize the bookkeeping core
	guard := bookkeeping.NewGuard(accountRepo, assetRepo, transactionRepo)
	directory := bookkeeping.NewDirectory(log, ledgerRepo, accountRepo, assetRepo, pool)
	engine := bookkeeping.NewEngine(log, postgresDB, guard, directory, entryRepo, transactionRepo, balanceRepo)

	// External price source with its in-process quote cache
	quoteClient := pricing.NewClient(log, &cfg.Pricing)

	// Initialize application services
	services := api.Services{
		Accounts:     service.NewAccountService(accountRepo, guard, directory),
		Assets:       service.NewAssetService(assetRepo, guard, directory),
		Transactions: service.NewTransactionService(engine, guard, transactionRepo, entryRepo),
		Balances:     service.NewBalanceService(balanceRepo, ledgerRepo, entryRepo, guard),
		Prices:       service.NewPriceService(priceRepo, quoteClient, guard),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no request observes a closed pool
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	pool.Release()
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
