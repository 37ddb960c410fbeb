package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies which linking record groups a transaction's entries.
type Kind string

const (
	KindCapital  Kind = "capital"
	KindTransfer Kind = "transfer"
	KindTrade    Kind = "trade"
	KindIncome   Kind = "income"
)

// Transaction is the header shared by exactly one entry group. It carries
// the user-facing metadata and never any monetary value; deleting it
// cascades to the entries and the linking record.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTransaction creates a transaction header for the given user
func NewTransaction(userID uuid.UUID, title string, description *string, date time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now(),
	}
}

// TransactionInfo is a header annotated with its kind, for listings.
type TransactionInfo struct {
	Transaction
	Kind Kind `json:"kind"`
}
