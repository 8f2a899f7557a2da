package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) ports.GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, title, description, genres, price, creator_id, earnings, downloads, released_at, created_at`

func (r *GameRepository) scanGame(row *sql.Row) (*domain.Game, error) {
	game := &domain.Game{}
	err := row.Scan(
		&game.ID, &game.Title, &game.Description, pq.Array(&game.Genres),
		&game.Price, &game.CreatorID, &game.Earnings, &game.Downloads,
		&game.ReleasedAt, &game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return game, nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) error {
	query := `
		INSERT INTO games (id, title, description, genres, price, creator_id, released_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		game.ID, game.Title, game.Description, pq.Array(game.Genres),
		game.Price, game.CreatorID, game.ReleasedAt,
	).Scan(&game.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: title already taken", domain.ErrConflict)
		}
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, id))
}

func (r *GameRepository) GetByTitle(ctx context.Context, title string) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE title = $1`
	return r.scanGame(r.db.QueryRowContext(ctx, query, title))
}

func (r *GameRepository) List(ctx context.Context, limit, offset int) ([]*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		game := &domain.Game{}
		if err := rows.Scan(
			&game.ID, &game.Title, &game.Description, pq.Array(&game.Genres),
			&game.Price, &game.CreatorID, &game.Earnings, &game.Downloads,
			&game.ReleasedAt, &game.CreatedAt,
		); err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *GameRepository) Update(ctx context.Context, game *domain.Game) error {
	query := `
		UPDATE games
		SET description = $2, genres = $3, price = $4, released_at = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		game.ID, game.Description, pq.Array(game.Genres), game.Price, game.ReleasedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// CreditEarnings claims the order ID in idempotency_keys before touching the
// game row, inside one transaction. A replay of the same order fails the
// claim and leaves the counters untouched.
func (r *GameRepository) CreditEarnings(ctx context.Context, gameID uuid.UUID, amount int64, orderID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO idempotency_keys (scope, key)
		VALUES ('game_earnings', $1)
		ON CONFLICT (scope, key) DO NOTHING
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if claimed == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE games
		SET earnings = earnings + $2, downloads = downloads + 1
		WHERE id = $1
	`, gameID, amount); err != nil {
		return fmt.Errorf("failed to credit earnings: %w", err)
	}

	return tx.Commit()
}
