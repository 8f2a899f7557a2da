package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type RechargeRepository struct {
	db *sql.DB
}

func NewRechargeRepository(db *sql.DB) ports.RechargeRepository {
	return &RechargeRepository{db: db}
}

func (r *RechargeRepository) Create(ctx context.Context, recharge *domain.Recharge) error {
	query := `
		INSERT INTO recharges (id, user_id, card_id, coins)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		recharge.ID, recharge.UserID, recharge.CardID, recharge.Coins,
	).Scan(&recharge.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert recharge: %w", err)
	}
	return nil
}

func (r *RechargeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recharge, error) {
	query := `
		SELECT id, user_id, card_id, coins, created_at
		FROM recharges WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recharges: %w", err)
	}
	defer rows.Close()

	var recharges []*domain.Recharge
	for rows.Next() {
		recharge := &domain.Recharge{}
		if err := rows.Scan(
			&recharge.ID, &recharge.UserID, &recharge.CardID, &recharge.Coins, &recharge.CreatedAt,
		); err != nil {
			return nil, err
		}
		recharges = append(recharges, recharge)
	}
	return recharges, rows.Err()
}
