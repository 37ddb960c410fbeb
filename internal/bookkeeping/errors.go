package bookkeeping

import (
	"fmt"

	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ErrNonPositiveAmount indicates an amount or fee that must be strictly
// positive was zero or negative.
type ErrNonPositiveAmount struct {
	Field string
	Value decimal.Decimal
}

func (e ErrNonPositiveAmount) Error() string {
	return fmt.Sprintf("%s must be positive, got %s", e.Field, e.Value)
}

// Is implements the errors.Is interface for ErrNonPositiveAmount
func (e ErrNonPositiveAmount) Is(target error) bool {
	_, ok := target.(ErrNonPositiveAmount)
	return ok
}

// ErrZeroAmount indicates a signed amount that must be non-zero was zero.
// Income amounts carry their sign (negative records an expense), so zero is
// the only invalid value.
type ErrZeroAmount struct {
	Field string
}

func (e ErrZeroAmount) Error() string {
	return e.Field + " must be non-zero"
}

// Is implements the errors.Is interface for ErrZeroAmount
func (e ErrZeroAmount) Is(target error) bool {
	_, ok := target.(ErrZeroAmount)
	return ok
}

// ErrNegativeFee indicates a negative fee
type ErrNegativeFee struct {
	Value decimal.Decimal
}

func (e ErrNegativeFee) Error() string {
	return "fee cannot be negative, got " + e.Value.String()
}

// ErrInvalidCombination indicates a same-asset or same-account combination
// the composers reject before any write (transfer source == target, trade
// base == quote, fee asset outside the trade pair, fee not smaller than a
// fee-inclusive transfer amount).
type ErrInvalidCombination struct {
	Reason string
}

func (e ErrInvalidCombination) Error() string {
	return e.Reason
}

// Is implements the errors.Is interface for ErrInvalidCombination
func (e ErrInvalidCombination) Is(target error) bool {
	t, ok := target.(ErrInvalidCombination)
	if !ok {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// ErrUnbalancedPlan indicates an entry plan whose signed amounts do not
// cancel. Plans are built by the composers' sign tables, so a non-zero
// total is a programming error caught before anything is written.
type ErrUnbalancedPlan struct {
	Total decimal.Decimal
}

func (e ErrUnbalancedPlan) Error() string {
	return "entry plan does not balance, total " + e.Total.String()
}

// ErrKindMismatch indicates an edit addressed to a transaction of a
// different kind (e.g. updating a trade through the capital composer).
type ErrKindMismatch struct {
	Want ledger.Kind
	Got  ledger.Kind
}

func (e ErrKindMismatch) Error() string {
	return fmt.Sprintf("transaction is a %s, not a %s", e.Got, e.Want)
}

// Is implements the errors.Is interface for ErrKindMismatch
func (e ErrKindMismatch) Is(target error) bool {
	_, ok := target.(ErrKindMismatch)
	return ok
}
