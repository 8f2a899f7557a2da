package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
	"github.com/coinforge/gamestore/internal/cryptox"
)

type cardService struct {
	cards  ports.CardRepository
	users  ports.UserRepository
	cipher *cryptox.Cipher
}

func NewCardService(cards ports.CardRepository, users ports.UserRepository, cipher *cryptox.Cipher) ports.CardService {
	return &cardService{cards: cards, users: users, cipher: cipher}
}

func (s *cardService) Register(ctx context.Context, userID uuid.UUID, input ports.RegisterCardInput) (*domain.CardView, error) {
	if input.Type != domain.CardTypeCredit && input.Type != domain.CardTypeDebit {
		return nil, fmt.Errorf("%w: unknown card type %q", domain.ErrInvalidArgument, input.Type)
	}
	if input.Number == "" || input.CCV == "" {
		return nil, fmt.Errorf("%w: card number and ccv are required", domain.ErrInvalidArgument)
	}
	if input.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: card is expired", domain.ErrInvalidArgument)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	numberEnc, err := s.cipher.Encrypt(input.Number)
	if err != nil {
		return nil, err
	}
	ccvEnc, err := s.cipher.Encrypt(input.CCV)
	if err != nil {
		return nil, err
	}

	card := &domain.Card{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      input.Type,
		NumberEnc: numberEnc,
		CCVEnc:    ccvEnc,
		ExpiresAt: input.ExpiresAt,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	view := card.View()
	return &view, nil
}

func (s *cardService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.CardView, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	views := make([]domain.CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, c.View())
	}
	return views, nil
}
