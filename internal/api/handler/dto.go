package handler

// Monetary values cross the API as decimal strings so no precision is lost
// to float encoding; dates use the YYYY-MM-DD form throughout.

// CreateAccountRequest represents a request to create a portfolio account
type CreateAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
}

// UpdateAccountRequest represents a request to rename or reorder an account
type UpdateAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder int    `json:"display_order" binding:"min=0"`
}

// AccountResponse represents a portfolio account in API responses
type AccountResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// CreateAssetRequest represents a request to register an asset
type CreateAssetRequest struct {
	Ticker         string  `json:"ticker" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Symbol         *string `json:"symbol,omitempty"`
	Precision      int32   `json:"precision" binding:"min=0,max=20"`
	PricePrecision int32   `json:"price_precision" binding:"min=0,max=20"`
	IsCurrency     bool    `json:"is_currency"`
}

// UpdateAssetRequest represents a request to change an asset's metadata
type UpdateAssetRequest struct {
	Ticker         string  `json:"ticker" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Symbol         *string `json:"symbol,omitempty"`
	Precision      int32   `json:"precision" binding:"min=0,max=20"`
	PricePrecision int32   `json:"price_precision" binding:"min=0,max=20"`
	IsCurrency     bool    `json:"is_currency"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID             string  `json:"id"`
	Ticker         string  `json:"ticker"`
	Name           string  `json:"name"`
	Symbol         *string `json:"symbol,omitempty"`
	Precision      int32   `json:"precision"`
	PricePrecision int32   `json:"price_precision"`
	IsCurrency     bool    `json:"is_currency"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// SetAccountingCurrencyRequest selects the user's valuation currency
type SetAccountingCurrencyRequest struct {
	AssetID string `json:"asset_id" binding:"required,uuid"`
}

// TransactionHeader carries the metadata fields shared by every
// transaction request
type TransactionHeader struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
}

// CapitalRequest books a capital contribution or drawing
type CapitalRequest struct {
	TransactionHeader
	AccountID string `json:"account_id" binding:"required,uuid"`
	AssetID   string `json:"asset_id" binding:"required,uuid"`
	Amount    string `json:"amount" binding:"required"`
	Fee       string `json:"fee,omitempty"`
	Drawing   bool   `json:"drawing"`
}

// IncomeRequest books an income receipt or expense; expenses carry a
// negative amount
type IncomeRequest struct {
	TransactionHeader
	AccountID string `json:"account_id" binding:"required,uuid"`
	AssetID   string `json:"asset_id" binding:"required,uuid"`
	Amount    string `json:"amount" binding:"required"`
}

// TransferRequest books an inter-account transfer
type TransferRequest struct {
	TransactionHeader
	SourceAccountID string `json:"source_account_id" binding:"required,uuid"`
	TargetAccountID string `json:"target_account_id" binding:"required,uuid"`
	AssetID         string `json:"asset_id" binding:"required,uuid"`
	Amount          string `json:"amount" binding:"required"`
	Fee             string `json:"fee,omitempty"`
	FeeInclusive    bool   `json:"fee_inclusive"`
}

// TradeRequest books a buy or sell of the base asset priced in the quote
// asset, inside one account
type TradeRequest struct {
	TransactionHeader
	AccountID    string  `json:"account_id" binding:"required,uuid"`
	BaseAssetID  string  `json:"base_asset_id" binding:"required,uuid"`
	QuoteAssetID string  `json:"quote_asset_id" binding:"required,uuid"`
	BaseAmount   string  `json:"base_amount" binding:"required"`
	QuoteAmount  string  `json:"quote_amount" binding:"required"`
	Buy          bool    `json:"buy"`
	FeeAssetID   *string `json:"fee_asset_id,omitempty" binding:"omitempty,uuid"`
	Fee          string  `json:"fee,omitempty"`
}

// TransactionResponse represents a transaction header in API responses
type TransactionResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"created_at"`
}

// EntryResponse represents one signed ledger movement in an audit trail
type EntryResponse struct {
	ID          string `json:"id"`
	LedgerType  string `json:"ledger_type"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	AssetID     string `json:"asset_id"`
	AssetTicker string `json:"asset_ticker"`
	Amount      string `json:"amount"`
}

// TransactionDetailResponse is a header together with its entry group
type TransactionDetailResponse struct {
	TransactionResponse
	Entries []EntryResponse `json:"entries"`
}

// BalanceResponse represents one (account, asset) holding
type BalanceResponse struct {
	PortfolioAccountID string `json:"portfolio_account_id"`
	AssetID            string `json:"asset_id"`
	Amount             string `json:"amount"`
	UpdatedAt          string `json:"updated_at"`
}

// UpsertPriceRequest stores a historical quote for an asset on a date
type UpsertPriceRequest struct {
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
	Price string `json:"price" binding:"required"`
}

// PriceResponse represents a stored historical quote
type PriceResponse struct {
	ID      string `json:"id"`
	AssetID string `json:"asset_id"`
	Date    string `json:"date"`
	Price   string `json:"price"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
