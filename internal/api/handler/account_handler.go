package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/api/middleware"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for portfolio account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new portfolio account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), middleware.GetUserID(c), req.Name, req.DisplayOrder)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves one of the user's accounts, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List returns all of the user's accounts in display order
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// Update renames or reorders one of the user's accounts
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), middleware.GetUserID(c), id, req.Name, req.DisplayOrder)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete removes one of the user's accounts together with its ledgers,
// entries, and balances
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondNoContent(c)
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.PortfolioAccount) AccountResponse {
	return AccountResponse{
		ID:           acc.ID.String(),
		Name:         acc.Name,
		DisplayOrder: acc.DisplayOrder,
		CreatedAt:    acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    acc.UpdatedAt.Format(time.RFC3339),
	}
}
