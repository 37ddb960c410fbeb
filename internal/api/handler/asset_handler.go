package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/api/middleware"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/domain/asset"
)

// AssetHandler handles HTTP requests for asset operations
type AssetHandler struct {
	assetService service.AssetService
	logger       *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(logger *slog.Logger, assetService service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
		logger:       logger,
	}
}

// Create handles registration of a new asset
func (h *AssetHandler) Create(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	a, err := h.assetService.CreateAsset(c.Request.Context(), middleware.GetUserID(c), service.AssetInput{
		Ticker:         req.Ticker,
		Name:           req.Name,
		Symbol:         req.Symbol,
		Precision:      req.Precision,
		PricePrecision: req.PricePrecision,
		IsCurrency:     req.IsCurrency,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondCreated(c, mapAssetToResponse(a))
}

// GetByID retrieves one of the user's assets
func (h *AssetHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	a, err := h.assetService.GetAsset(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAssetToResponse(a))
}

// List returns all of the user's assets
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.assetService.ListAssets(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		responses = append(responses, mapAssetToResponse(a))
	}
	RespondOK(c, responses)
}

// Update changes an asset's metadata
func (h *AssetHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	a, err := h.assetService.UpdateAsset(c.Request.Context(), middleware.GetUserID(c), id, service.AssetInput{
		Ticker:         req.Ticker,
		Name:           req.Name,
		Symbol:         req.Symbol,
		Precision:      req.Precision,
		PricePrecision: req.PricePrecision,
		IsCurrency:     req.IsCurrency,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapAssetToResponse(a))
}

// Delete removes one of the user's assets together with its ledgers,
// entries, balances, and stored prices
func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondNoContent(c)
}

// GetAccountingCurrency returns the user's valuation asset; 404 when none
// has been chosen yet
func (h *AssetHandler) GetAccountingCurrency(c *gin.Context) {
	a, err := h.assetService.GetAccountingCurrency(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	if a == nil {
		RespondNotFound(c, "No accounting currency selected")
		return
	}

	RespondOK(c, mapAssetToResponse(a))
}

// SetAccountingCurrency selects the user's valuation asset
func (h *AssetHandler) SetAccountingCurrency(c *gin.Context) {
	var req SetAccountingCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	if err := h.assetService.SetAccountingCurrency(c.Request.Context(), middleware.GetUserID(c), assetID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondNoContent(c)
}

// mapAssetToResponse maps an asset entity to an asset response DTO
func mapAssetToResponse(a *asset.Asset) AssetResponse {
	return AssetResponse{
		ID:             a.ID.String(),
		Ticker:         a.Ticker,
		Name:           a.Name,
		Symbol:         a.Symbol,
		Precision:      a.Precision,
		PricePrecision: a.PricePrecision,
		IsCurrency:     a.IsCurrency,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
}
