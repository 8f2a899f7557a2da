package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

// ledger routes every balance mutation through the repository's conditional
// update. Nothing else in the codebase touches users.balance.
type ledger struct {
	users ports.UserRepository
}

func NewLedger(users ports.UserRepository) ports.Ledger {
	return &ledger{users: users}
}

func (l *ledger) Adjust(ctx context.Context, userID uuid.UUID, delta int64) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: zero balance adjustment", domain.ErrInvalidArgument)
	}
	balance, err := l.users.AdjustBalance(ctx, userID, delta)
	if err != nil {
		return 0, err
	}
	return balance, nil
}
