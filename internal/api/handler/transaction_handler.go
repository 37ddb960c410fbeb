package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/portfolio-ledger/internal/api/middleware"
	"github.com/portfolio-ledger/internal/api/service"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles HTTP requests for ledger transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// RecordCapital books a capital contribution or drawing
func (h *TransactionHandler) RecordCapital(c *gin.Context) {
	in, ok := h.bindCapital(c)
	if !ok {
		return
	}

	t, err := h.transactionService.RecordCapital(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapTransactionToResponse(t, ledger.KindCapital))
}

// UpdateCapital edits a capital transaction
func (h *TransactionHandler) UpdateCapital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}
	in, ok := h.bindCapital(c)
	if !ok {
		return
	}

	t, err := h.transactionService.UpdateCapital(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(t, ledger.KindCapital))
}

// RecordIncome books an income receipt or expense
func (h *TransactionHandler) RecordIncome(c *gin.Context) {
	in, ok := h.bindIncome(c)
	if !ok {
		return
	}

	t, err := h.transactionService.RecordIncome(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapTransactionToResponse(t, ledger.KindIncome))
}

// UpdateIncome edits an income transaction
func (h *TransactionHandler) UpdateIncome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}
	in, ok := h.bindIncome(c)
	if !ok {
		return
	}

	t, err := h.transactionService.UpdateIncome(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(t, ledger.KindIncome))
}

// RecordTransfer books an inter-account transfer
func (h *TransactionHandler) RecordTransfer(c *gin.Context) {
	in, ok := h.bindTransfer(c)
	if !ok {
		return
	}

	t, err := h.transactionService.RecordTransfer(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapTransactionToResponse(t, ledger.KindTransfer))
}

// UpdateTransfer edits a transfer transaction
func (h *TransactionHandler) UpdateTransfer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}
	in, ok := h.bindTransfer(c)
	if !ok {
		return
	}

	t, err := h.transactionService.UpdateTransfer(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(t, ledger.KindTransfer))
}

// RecordTrade books a buy or sell
func (h *TransactionHandler) RecordTrade(c *gin.Context) {
	in, ok := h.bindTrade(c)
	if !ok {
		return
	}

	t, err := h.transactionService.RecordTrade(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, mapTransactionToResponse(t, ledger.KindTrade))
}

// UpdateTrade edits a trade transaction
func (h *TransactionHandler) UpdateTrade(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}
	in, ok := h.bindTrade(c)
	if !ok {
		return
	}

	t, err := h.transactionService.UpdateTrade(c.Request.Context(), middleware.GetUserID(c), id, in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(t, ledger.KindTrade))
}

// List returns the user's transactions, newest first, paginated
func (h *TransactionHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	infos, total, err := h.transactionService.ListTransactions(c.Request.Context(), middleware.GetUserID(c), params.Page, params.PerPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(infos))
	for _, info := range infos {
		responses = append(responses, mapTransactionToResponse(&info.Transaction, info.Kind))
	}
	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// GetByID returns one transaction with its full entry audit trail
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	info, entries, err := h.transactionService.GetTransaction(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	detail := TransactionDetailResponse{
		TransactionResponse: mapTransactionToResponse(&info.Transaction, info.Kind),
		Entries:             make([]EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		detail.Entries = append(detail.Entries, EntryResponse{
			ID:          e.ID.String(),
			LedgerType:  string(e.LedgerType),
			AccountID:   e.AccountID.String(),
			AccountName: e.AccountName,
			AssetID:     e.AssetID.String(),
			AssetTicker: e.AssetTicker,
			Amount:      e.Amount.String(),
		})
	}
	RespondOK(c, detail)
}

// Delete removes a transaction and its entry group
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

func (h *TransactionHandler) bindCapital(c *gin.Context) (bookkeeping.CapitalInput, bool) {
	var req CapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return bookkeeping.CapitalInput{}, false
	}

	header, ok := parseHeader(c, req.TransactionHeader)
	if !ok {
		return bookkeeping.CapitalInput{}, false
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return bookkeeping.CapitalInput{}, false
	}
	fee, ok := parseOptionalAmount(c, "fee", req.Fee)
	if !ok {
		return bookkeeping.CapitalInput{}, false
	}

	return bookkeeping.CapitalInput{
		Header:    header,
		AccountID: uuid.MustParse(req.AccountID),
		AssetID:   uuid.MustParse(req.AssetID),
		Amount:    amount,
		Fee:       fee,
		Drawing:   req.Drawing,
	}, true
}

func (h *TransactionHandler) bindIncome(c *gin.Context) (bookkeeping.IncomeInput, bool) {
	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return bookkeeping.IncomeInput{}, false
	}

	header, ok := parseHeader(c, req.TransactionHeader)
	if !ok {
		return bookkeeping.IncomeInput{}, false
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return bookkeeping.IncomeInput{}, false
	}

	return bookkeeping.IncomeInput{
		Header:    header,
		AccountID: uuid.MustParse(req.AccountID),
		AssetID:   uuid.MustParse(req.AssetID),
		Amount:    amount,
	}, true
}

func (h *TransactionHandler) bindTransfer(c *gin.Context) (bookkeeping.TransferInput, bool) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return bookkeeping.TransferInput{}, false
	}

	header, ok := parseHeader(c, req.TransactionHeader)
	if !ok {
		return bookkeeping.TransferInput{}, false
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return bookkeeping.TransferInput{}, false
	}
	fee, ok := parseOptionalAmount(c, "fee", req.Fee)
	if !ok {
		return bookkeeping.TransferInput{}, false
	}

	return bookkeeping.TransferInput{
		Header:          header,
		SourceAccountID: uuid.MustParse(req.SourceAccountID),
		TargetAccountID: uuid.MustParse(req.TargetAccountID),
		AssetID:         uuid.MustParse(req.AssetID),
		Amount:          amount,
		Fee:             fee,
		FeeInclusive:    req.FeeInclusive,
	}, true
}

func (h *TransactionHandler) bindTrade(c *gin.Context) (bookkeeping.TradeInput, bool) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return bookkeeping.TradeInput{}, false
	}

	header, ok := parseHeader(c, req.TransactionHeader)
	if !ok {
		return bookkeeping.TradeInput{}, false
	}
	baseAmount, ok := parseAmount(c, "base_amount", req.BaseAmount)
	if !ok {
		return bookkeeping.TradeInput{}, false
	}
	quoteAmount, ok := parseAmount(c, "quote_amount", req.QuoteAmount)
	if !ok {
		return bookkeeping.TradeInput{}, false
	}
	fee, ok := parseOptionalAmount(c, "fee", req.Fee)
	if !ok {
		return bookkeeping.TradeInput{}, false
	}

	var feeAssetID *uuid.UUID
	if req.FeeAssetID != nil {
		id := uuid.MustParse(*req.FeeAssetID)
		feeAssetID = &id
	}

	return bookkeeping.TradeInput{
		Header:       header,
		AccountID:    uuid.MustParse(req.AccountID),
		BaseAssetID:  uuid.MustParse(req.BaseAssetID),
		QuoteAssetID: uuid.MustParse(req.QuoteAssetID),
		BaseAmount:   baseAmount,
		QuoteAmount:  quoteAmount,
		Buy:          req.Buy,
		FeeAssetID:   feeAssetID,
		Fee:          fee,
	}, true
}

// parseHeader converts the bound header DTO; the date format was already
// validated by the binding
func parseHeader(c *gin.Context, header TransactionHeader) (bookkeeping.Header, bool) {
	date, err := time.Parse("2006-01-02", header.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid date")
		return bookkeeping.Header{}, false
	}
	return bookkeeping.Header{
		Title:       header.Title,
		Description: header.Description,
		Date:        date,
	}, true
}

func parseAmount(c *gin.Context, field, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		RespondBadRequest(c, "Invalid "+field+": not a decimal number")
		return decimal.Zero, false
	}
	return d, true
}

// parseOptionalAmount treats an absent value as zero
func parseOptionalAmount(c *gin.Context, field, value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, true
	}
	return parseAmount(c, field, value)
}

// mapTransactionToResponse maps a transaction header to its response DTO
func mapTransactionToResponse(t *ledger.Transaction, kind ledger.Kind) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Kind:        string(kind),
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}
