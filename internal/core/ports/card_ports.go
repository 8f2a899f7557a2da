package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

// CardRepository returns cards with ciphertext fields only; plaintext card
// data never crosses this boundary.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
}

type RegisterCardInput struct {
	Type      string
	Number    string
	CCV       string
	ExpiresAt time.Time
}

type CardService interface {
	Register(ctx context.Context, userID uuid.UUID, input RegisterCardInput) (*domain.CardView, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.CardView, error)
}
