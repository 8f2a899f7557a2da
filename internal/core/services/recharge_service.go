package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type rechargeService struct {
	users     ports.UserRepository
	cards     ports.CardRepository
	recharges ports.RechargeRepository
	ledger    ports.Ledger
	logger    *zap.Logger
}

func NewRechargeService(users ports.UserRepository, cards ports.CardRepository, recharges ports.RechargeRepository, ledger ports.Ledger, logger *zap.Logger) ports.RechargeService {
	return &rechargeService{
		users:     users,
		cards:     cards,
		recharges: recharges,
		ledger:    ledger,
		logger:    logger,
	}
}

// Recharge validates everything up front, then records the intent, then
// credits. The record going in first means a crash between the two writes
// leaves evidence of a credit that never landed instead of silently losing
// it.
func (s *rechargeService) Recharge(ctx context.Context, userID, cardID uuid.UUID, coins int64) (*domain.Recharge, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	if coins <= 0 {
		return nil, fmt.Errorf("%w: cannot recharge %d coins", domain.ErrInvalidArgument, coins)
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: card", domain.ErrNotFound)
	}
	if card.UserID != userID {
		return nil, fmt.Errorf("%w: card does not belong to this user", domain.ErrForbidden)
	}

	recharge := &domain.Recharge{
		ID:     uuid.New(),
		UserID: userID,
		CardID: cardID,
		Coins:  coins,
	}
	if err := s.recharges.Create(ctx, recharge); err != nil {
		return nil, fmt.Errorf("failed to record recharge: %w", err)
	}

	if _, err := s.ledger.Adjust(ctx, userID, coins); err != nil {
		// The recharge row stays behind as evidence for reconciliation.
		s.logger.Error("recharge recorded but credit failed",
			zap.String("recharge_id", recharge.ID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	return recharge, nil
}
