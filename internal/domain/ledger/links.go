package ledger

import "github.com/google/uuid"

// Linking records tie the entries of one economic event together. Every
// entry-id column is unique in its table, so an entry belongs to at most
// one event. Optional fee entry ids are nil when no fee was charged.

// CapitalLink groups the entries of a capital contribution or drawing.
type CapitalLink struct {
	TransactionID    uuid.UUID  `json:"transaction_id"`
	AssetEntryID     uuid.UUID  `json:"asset_entry_id"`
	CapitalEntryID   uuid.UUID  `json:"capital_entry_id"`
	FeeAssetEntryID  *uuid.UUID `json:"fee_asset_entry_id,omitempty"`
	FeeIncomeEntryID *uuid.UUID `json:"fee_income_entry_id,omitempty"`
}

// TransferLink groups the entries of an inter-account transfer.
type TransferLink struct {
	TransactionID        uuid.UUID  `json:"transaction_id"`
	SourceAssetEntryID   uuid.UUID  `json:"source_asset_entry_id"`
	SourceCapitalEntryID uuid.UUID  `json:"source_capital_entry_id"`
	TargetAssetEntryID   uuid.UUID  `json:"target_asset_entry_id"`
	TargetCapitalEntryID uuid.UUID  `json:"target_capital_entry_id"`
	FeeAssetEntryID      *uuid.UUID `json:"fee_asset_entry_id,omitempty"`
	FeeIncomeEntryID     *uuid.UUID `json:"fee_income_entry_id,omitempty"`
}

// TradeLink groups the entries of a buy or sell of a base asset priced in a
// quote asset.
type TradeLink struct {
	TransactionID    uuid.UUID  `json:"transaction_id"`
	BaseAssetEntryID uuid.UUID  `json:"base_asset_entry_id"`
	BaseIncomeEntryID uuid.UUID `json:"base_income_entry_id"`
	QuoteAssetEntryID uuid.UUID `json:"quote_asset_entry_id"`
	QuoteIncomeEntryID uuid.UUID `json:"quote_income_entry_id"`
	FeeAssetEntryID  *uuid.UUID `json:"fee_asset_entry_id,omitempty"`
	FeeIncomeEntryID *uuid.UUID `json:"fee_income_entry_id,omitempty"`
}

// IncomeLink groups the entries of an income receipt or expense.
type IncomeLink struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AssetEntryID  uuid.UUID `json:"asset_entry_id"`
	IncomeEntryID uuid.UUID `json:"income_entry_id"`
}
