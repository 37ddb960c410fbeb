package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one signed decimal movement in one ledger. Entries are immutable
// once committed and only ever exist as part of a balanced group sharing a
// transaction header: editing an event means deleting the group and
// recreating it.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	LedgerID      uuid.UUID       `json:"ledger_id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// AuditEntry is an entry joined with the ledger, account, and asset it was
// booked against, for presenting the audit trail behind a balance.
type AuditEntry struct {
	Entry
	LedgerType  Type      `json:"ledger_type"`
	AccountID   uuid.UUID `json:"account_id"`
	AccountName string    `json:"account_name"`
	AssetID     uuid.UUID `json:"asset_id"`
	AssetTicker string    `json:"asset_ticker"`
}
