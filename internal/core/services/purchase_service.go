package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type purchaseService struct {
	users  ports.UserRepository
	games  ports.GameRepository
	orders ports.OrderRepository
	ledger ports.Ledger
	logger *zap.Logger
}

func NewPurchaseService(users ports.UserRepository, games ports.GameRepository, orders ports.OrderRepository, ledger ports.Ledger, logger *zap.Logger) ports.PurchaseService {
	return &purchaseService{
		users:  users,
		games:  games,
		orders: orders,
		ledger: ledger,
		logger: logger,
	}
}

// Purchase claims the (user, game) pair, debits the buyer, then applies the
// dependent effects. The claim insert is the serialization point: of two
// concurrent purchases of the same game exactly one wins it, so the debit
// and the earnings credit can run at most once per pair. The debit itself is
// a conditional update, so concurrent purchases of different games cannot
// overspend either.
func (s *purchaseService) Purchase(ctx context.Context, userID, gameID uuid.UUID) (*domain.Order, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game", domain.ErrNotFound)
	}

	if user.Balance < game.Price {
		return nil, domain.ErrInsufficientBalance
	}

	claimed, err := s.users.AddPurchasedGame(ctx, userID, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim purchase: %w", err)
	}
	if !claimed {
		return nil, domain.ErrAlreadyPurchased
	}

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		GameID:      gameID,
		Price:       game.Price, // snapshot, not a live reference
		PurchasedAt: time.Now(),
	}

	if game.Price > 0 {
		if _, err := s.ledger.Adjust(ctx, userID, -game.Price); err != nil {
			// The debit lost its race; hand the claim back so a later
			// attempt can go through.
			if releaseErr := s.users.RemovePurchasedGame(ctx, userID, gameID); releaseErr != nil {
				s.logger.Error("failed to release purchase claim",
					zap.String("user_id", userID.String()),
					zap.String("game_id", gameID.String()),
					zap.Error(releaseErr))
			}
			return nil, err
		}
	}

	if err := s.applyPostCommit(ctx, order); err != nil {
		// The buyer has paid. Surface that distinctly so the caller can
		// drive Complete instead of treating this as a clean failure.
		s.logger.Error("purchase debited but not fully applied",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("game_id", gameID.String()),
			zap.Error(err))
		return order, &domain.PartialPurchaseError{OrderID: order.ID, Err: err}
	}

	return order, nil
}

// Complete retries the post-debit steps for a recorded order. Each step
// carries its own already-applied guard, so re-running is harmless.
func (s *purchaseService) Complete(ctx context.Context, orderID uuid.UUID, requester domain.Identity) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	if requester.Role != domain.RoleAdmin && order.UserID != requester.UserID {
		return fmt.Errorf("%w: not your order", domain.ErrForbidden)
	}
	return s.applyPostCommit(ctx, order)
}

func (s *purchaseService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// applyPostCommit performs the effects that depend on the debit: the
// earnings/downloads credit (keyed by order ID so replays are no-ops) and
// the immutable order record. The entitlement itself was already granted by
// the claim. Every step is individually idempotent.
func (s *purchaseService) applyPostCommit(ctx context.Context, order *domain.Order) error {
	if err := s.games.CreditEarnings(ctx, order.GameID, order.Price, order.ID); err != nil {
		return fmt.Errorf("failed to credit game earnings: %w", err)
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}
	return nil
}
