// Package shared holds domain types and errors used across entity packages.
package shared

import "github.com/google/uuid"

// ErrNotOwned indicates a referenced entity does not belong to the
// requesting user. It aborts the whole operation before any write.
type ErrNotOwned struct {
	Entity   string
	EntityID uuid.UUID
	UserID   uuid.UUID
}

func (e ErrNotOwned) Error() string {
	return e.Entity + " " + e.EntityID.String() + " does not belong to user " + e.UserID.String()
}

// Is matches any ErrNotOwned when the target carries a nil EntityID.
func (e ErrNotOwned) Is(target error) bool {
	t, ok := target.(ErrNotOwned)
	if !ok {
		return false
	}
	if t.EntityID == uuid.Nil {
		return true
	}
	return e.Entity == t.Entity && e.EntityID == t.EntityID
}
