package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/api/middleware"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/domain/ledger"
)

// BalanceHandler handles HTTP requests for materialized holdings
type BalanceHandler struct {
	balanceService service.BalanceService
	logger         *slog.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(logger *slog.Logger, balanceService service.BalanceService) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

// ListByUser returns every holding across the user's accounts
func (h *BalanceHandler) ListByUser(c *gin.Context) {
	balances, err := h.balanceService.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapBalancesToResponse(balances))
}

// ListByAccount returns every holding in one account
func (h *BalanceHandler) ListByAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	balances, err := h.balanceService.ListByAccount(c.Request.Context(), middleware.GetUserID(c), accountID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapBalancesToResponse(balances))
}

// Get returns the holding of one asset in one account; untouched pairs
// read as zero
func (h *BalanceHandler) Get(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	b, err := h.balanceService.GetBalance(c.Request.Context(), middleware.GetUserID(c), accountID, assetID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapBalanceToResponse(b))
}

// Verify recomputes the holding from its underlying entries and reports
// whether it matches the materialized value
func (h *BalanceHandler) Verify(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	check, err := h.balanceService.VerifyBalance(c.Request.Context(), middleware.GetUserID(c), accountID, assetID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, gin.H{
		"cached":     mapBalanceToResponse(check.Cached),
		"recomputed": check.Recomputed.Amount.String(),
		"consistent": check.Consistent,
	})
}

func mapBalanceToResponse(b *ledger.Balance) BalanceResponse {
	return BalanceResponse{
		PortfolioAccountID: b.PortfolioAccountID.String(),
		AssetID:            b.AssetID.String(),
		Amount:             b.Amount.String(),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}

func mapBalancesToResponse(balances []*ledger.Balance) []BalanceResponse {
	responses := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, mapBalanceToResponse(b))
	}
	return responses
}
