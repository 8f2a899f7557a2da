package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type OrderRepository interface {
	// Create is idempotent on the order ID: re-inserting a recorded order is
	// a no-op.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}

type PurchaseService interface {
	// Purchase debits the buyer and applies the dependent effects. It can
	// return both an order and a *domain.PartialPurchaseError when the debit
	// committed but a later step failed.
	Purchase(ctx context.Context, userID, gameID uuid.UUID) (*domain.Order, error)
	// Complete retries the post-debit steps for an order; safe to call any
	// number of times. Only the order's owner or an admin may drive it.
	Complete(ctx context.Context, orderID uuid.UUID, requester domain.Identity) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
}
