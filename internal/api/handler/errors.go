package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/bookkeeping"
	"github.com/portfolio-ledger/internal/domain/account"
	"github.com/portfolio-ledger/internal/domain/asset"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/portfolio-ledger/internal/domain/shared"
	pricingclient "github.com/portfolio-ledger/internal/pricing"
)

// respondDomainError maps the typed domain errors shared by every endpoint
// to HTTP responses. Ownership violations answer 404 so the API does not
// reveal whether the id exists at all. Anything unmapped is logged and
// answered 500 without detail.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrNotOwned{}),
		errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, asset.ErrAssetNotFound{}),
		errors.Is(err, ledger.ErrTransactionNotFound{}),
		errors.Is(err, pricing.ErrPriceNotFound{}),
		errors.Is(err, pricingclient.ErrQuoteUnavailable{}):
		RespondNotFound(c, "Resource not found")
		return

	case errors.Is(err, asset.ErrPrecisionExceeded{}),
		errors.Is(err, bookkeeping.ErrNonPositiveAmount{}),
		errors.Is(err, bookkeeping.ErrZeroAmount{}),
		errors.Is(err, bookkeeping.ErrInvalidCombination{}),
		errors.Is(err, bookkeeping.ErrKindMismatch{}),
		errors.Is(err, account.ErrEmptyName),
		errors.Is(err, asset.ErrEmptyTicker),
		errors.Is(err, asset.ErrEmptyName),
		errors.Is(err, asset.ErrInvalidPrecision):
		RespondBadRequest(c, err.Error())
		return
	}

	var negFee bookkeeping.ErrNegativeFee
	if errors.As(err, &negFee) {
		RespondBadRequest(c, negFee.Error())
		return
	}

	var dupName account.ErrDuplicateName
	if errors.As(err, &dupName) {
		RespondBadRequest(c, dupName.Error())
		return
	}

	var dupField asset.ErrDuplicateField
	if errors.As(err, &dupField) {
		RespondBadRequest(c, dupField.Error())
		return
	}

	logger.Error("Operation failed", "error", err)
	RespondInternalError(c)
}
