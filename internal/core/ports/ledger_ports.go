package ports

import (
	"context"

	"github.com/google/uuid"
)

// Ledger is the sole authority for balance mutation. Adjust is the single
// commit point of the recharge and purchase flows: precondition checks run
// before it, dependent side effects after it.
type Ledger interface {
	// Adjust moves delta coins (negative for a debit) and returns the new
	// balance. A debit that would go below zero fails with
	// domain.ErrInsufficientBalance and writes nothing.
	Adjust(ctx context.Context, userID uuid.UUID, delta int64) (int64, error)
}
