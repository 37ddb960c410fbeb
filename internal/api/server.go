// Package api assembles the HTTP surface: handlers, middleware, routing,
// and the server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api/handler"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/config"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// Services bundles the application services the server exposes
type Services struct {
	Accounts     service.AccountService
	Assets       service.AssetService
	Transactions service.TransactionService
	Balances     service.BalanceService
	Prices       service.PriceService
}

// NewServer creates and configures a new HTTP server over the given services
func NewServer(log *slog.Logger, cfg *config.Config, svcs Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	setupRouter(log, httpRouter,
		handler.NewAccountHandler(log, svcs.Accounts),
		handler.NewAssetHandler(log, svcs.Assets),
		handler.NewTransactionHandler(log, svcs.Transactions),
		handler.NewBalanceHandler(log, svcs.Balances),
		handler.NewPriceHandler(log, svcs.Prices),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server; the caller bounds the wait
// through ctx
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
