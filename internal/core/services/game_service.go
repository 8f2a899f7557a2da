package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type gameService struct {
	games ports.GameRepository
	users ports.UserRepository
}

func NewGameService(games ports.GameRepository, users ports.UserRepository) ports.GameService {
	return &gameService{games: games, users: users}
}

func (s *gameService) Create(ctx context.Context, creatorID uuid.UUID, input ports.CreateGameInput) (*domain.Game, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrInvalidArgument)
	}
	if input.ReleasedAt != nil && input.ReleasedAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: release date is in the past", domain.ErrInvalidArgument)
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	if existing, err := s.games.GetByTitle(ctx, title); err != nil {
		return nil, fmt.Errorf("failed to check title: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: title already taken", domain.ErrConflict)
	}

	game := &domain.Game{
		ID:          uuid.New(),
		Title:       title,
		Description: input.Description,
		Genres:      input.Genres,
		Price:       input.Price,
		CreatorID:   creatorID,
		ReleasedAt:  input.ReleasedAt,
	}
	if err := s.games.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	return game, nil
}

func (s *gameService) Update(ctx context.Context, gameID, userID uuid.UUID, input ports.UpdateGameInput) (*domain.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game", domain.ErrNotFound)
	}
	if game.CreatorID != userID {
		return nil, fmt.Errorf("%w: not the author of this game", domain.ErrForbidden)
	}
	if input.ReleasedAt != nil && input.ReleasedAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: release date is in the past", domain.ErrInvalidArgument)
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrInvalidArgument)
	}

	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.Genres != nil {
		game.Genres = input.Genres
	}
	if input.Price != nil {
		game.Price = *input.Price
	}
	if input.ReleasedAt != nil {
		game.ReleasedAt = input.ReleasedAt
	}

	if err := s.games.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game", domain.ErrNotFound)
	}
	return game, nil
}

func (s *gameService) List(ctx context.Context, limit, offset int) ([]*domain.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.games.List(ctx, limit, offset)
}
