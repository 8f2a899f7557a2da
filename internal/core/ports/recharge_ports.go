package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type RechargeRepository interface {
	Create(ctx context.Context, recharge *domain.Recharge) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recharge, error)
}

type RechargeService interface {
	Recharge(ctx context.Context, userID, cardID uuid.UUID, coins int64) (*domain.Recharge, error)
}
