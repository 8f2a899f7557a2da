package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) ports.CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (id, user_id, card_type, number_enc, ccv_enc, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING registered_at
	`
	err := r.db.QueryRowContext(ctx, query,
		card.ID, card.UserID, card.Type, card.NumberEnc, card.CCVEnc, card.ExpiresAt,
	).Scan(&card.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `
		SELECT id, user_id, card_type, number_enc, ccv_enc, expires_at, registered_at
		FROM cards WHERE id = $1
	`
	card := &domain.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.UserID, &card.Type, &card.NumberEnc, &card.CCVEnc,
		&card.ExpiresAt, &card.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return card, nil
}

func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	query := `
		SELECT id, user_id, card_type, number_enc, ccv_enc, expires_at, registered_at
		FROM cards WHERE user_id = $1
		ORDER BY registered_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.Card
	for rows.Next() {
		card := &domain.Card{}
		if err := rows.Scan(
			&card.ID, &card.UserID, &card.Type, &card.NumberEnc, &card.CCVEnc,
			&card.ExpiresAt, &card.RegisteredAt,
		); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
