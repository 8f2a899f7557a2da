package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*domain.Review, error)
}

type CreateReviewInput struct {
	Score   int
	Comment string
}

type ReviewService interface {
	Create(ctx context.Context, authorID, gameID uuid.UUID, input CreateReviewInput) (*domain.Review, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]*domain.Review, error)
}
