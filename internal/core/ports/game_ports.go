package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetByTitle(ctx context.Context, title string) (*domain.Game, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Game, error)
	Update(ctx context.Context, game *domain.Game) error

	// CreditEarnings adds amount to earnings and bumps downloads by one,
	// exactly once per orderID: replays keyed by the same order are no-ops.
	CreditEarnings(ctx context.Context, gameID uuid.UUID, amount int64, orderID uuid.UUID) error
}

type CreateGameInput struct {
	Title       string
	Description string
	Genres      []string
	Price       int64
	ReleasedAt  *time.Time
}

type UpdateGameInput struct {
	Description *string
	Genres      []string
	Price       *int64
	ReleasedAt  *time.Time
}

type GameService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreateGameInput) (*domain.Game, error)
	Update(ctx context.Context, gameID, userID uuid.UUID, input UpdateGameInput) (*domain.Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Game, error)
}
