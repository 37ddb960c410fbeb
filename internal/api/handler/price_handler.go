package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/api/middleware"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// PriceHandler handles HTTP requests for historical price operations
type PriceHandler struct {
	priceService service.PriceService
	logger       *slog.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(logger *slog.Logger, priceService service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		logger:       logger,
	}
}

// Fetch looks the quote up at the external source, stores it, and returns
// it. Prices only pre-fill trade forms, so a missing quote is a 404, not a
// failure.
func (h *PriceHandler) Fetch(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	p, err := h.priceService.FetchPrice(c.Request.Context(), middleware.GetUserID(c), assetID, date)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapPriceToResponse(p))
}

// Set stores a manually entered quote for (asset, date)
func (h *PriceHandler) Set(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	var req UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date")
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		RespondBadRequest(c, "Invalid price: not a decimal number")
		return
	}

	p, err := h.priceService.SetPrice(c.Request.Context(), middleware.GetUserID(c), assetID, date, price)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapPriceToResponse(p))
}

// Get returns the stored quote for (asset, date)
func (h *PriceHandler) Get(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	p, err := h.priceService.GetPrice(c.Request.Context(), middleware.GetUserID(c), assetID, date)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapPriceToResponse(p))
}

// List returns the stored quotes for an asset, newest first, paginated
func (h *PriceHandler) List(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid asset ID")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	prices, err := h.priceService.ListPrices(c.Request.Context(), middleware.GetUserID(c), assetID, params.Page, params.PerPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]PriceResponse, 0, len(prices))
	for _, p := range prices {
		responses = append(responses, mapPriceToResponse(p))
	}
	RespondOK(c, responses)
}

func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		RespondBadRequest(c, "Missing date query parameter")
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		RespondBadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func mapPriceToResponse(p *pricing.Price) PriceResponse {
	return PriceResponse{
		ID:      p.ID.String(),
		AssetID: p.AssetID.String(),
		Date:    p.Date.Format("2006-01-02"),
		Price:   p.Price.String(),
	}
}
