package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type reviewService struct {
	reviews ports.ReviewRepository
	games   ports.GameRepository
	users   ports.UserRepository
}

func NewReviewService(reviews ports.ReviewRepository, games ports.GameRepository, users ports.UserRepository) ports.ReviewService {
	return &reviewService{reviews: reviews, games: games, users: users}
}

func (s *reviewService) Create(ctx context.Context, authorID, gameID uuid.UUID, input ports.CreateReviewInput) (*domain.Review, error) {
	if input.Score < domain.MinReviewScore || input.Score > domain.MaxReviewScore {
		return nil, fmt.Errorf("%w: score must be between %d and %d",
			domain.ErrInvalidArgument, domain.MinReviewScore, domain.MaxReviewScore)
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game", domain.ErrNotFound)
	}

	review := &domain.Review{
		ID:       uuid.New(),
		GameID:   gameID,
		AuthorID: authorID,
		Score:    input.Score,
		Comment:  input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListByGame(ctx context.Context, gameID uuid.UUID) ([]*domain.Review, error) {
	return s.reviews.ListByGame(ctx, gameID)
}
