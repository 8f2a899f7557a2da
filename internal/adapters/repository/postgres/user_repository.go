package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, nickname, email, password_hash, role, balance, is_verified,
	refresh_token_hash, verification_code, verification_expires, created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Nickname, &user.Email, &user.PasswordHash, &user.Role,
		&user.Balance, &user.IsVerified, &user.RefreshTokenHash,
		&user.VerificationCode, &user.VerificationExp, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, nickname, email, password_hash, role, balance, is_verified, verification_code, verification_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Nickname, user.Email, user.PasswordHash, user.Role,
		user.Balance, user.IsVerified, user.VerificationCode, user.VerificationExp,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE nickname = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, nickname))
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET nickname = $2, email = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Nickname, user.Email); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: nickname or email already taken", domain.ErrConflict)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	return nil
}

// AdjustBalance is the ledger's single commit point. The WHERE clause makes
// the read-modify-write one atomic statement: a debit only lands if the
// resulting balance stays >= 0, so concurrent debits cannot overdraw.
func (r *UserRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance
	`
	var balance int64
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return balance, nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hash); err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	return nil
}

func (r *UserRepository) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expires time.Time) error {
	query := `
		UPDATE users SET verification_code = $2, verification_expires = $3, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, code, expires); err != nil {
		return fmt.Errorf("failed to set verification code: %w", err)
	}
	return nil
}

// MarkVerified flips the flag and clears the code pair together.
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires = NULL, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	return nil
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hash); err != nil {
		return fmt.Errorf("failed to set refresh token hash: %w", err)
	}
	return nil
}

// ReplaceRefreshTokenHash only swaps when the stored hash still equals old,
// so of two concurrent refreshes with the same token exactly one wins.
func (r *UserRepository) ReplaceRefreshTokenHash(ctx context.Context, id uuid.UUID, old, new string) (bool, error) {
	query := `
		UPDATE users SET refresh_token_hash = $3, updated_at = NOW()
		WHERE id = $1 AND refresh_token_hash = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, old, new)
	if err != nil {
		return false, fmt.Errorf("failed to replace refresh token hash: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) HasPurchased(ctx context.Context, userID, gameID uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM purchases WHERE user_id = $1 AND game_id = $2 LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, query, userID, gameID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return true, nil
}

// AddPurchasedGame is the purchase flow's serialization point for a
// (user, game) pair: the primary key makes the insert a claim that at most
// one concurrent caller wins.
func (r *UserRepository) AddPurchasedGame(ctx context.Context, userID, gameID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO purchases (user_id, game_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, game_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, userID, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to claim entitlement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) RemovePurchasedGame(ctx context.Context, userID, gameID uuid.UUID) error {
	query := `DELETE FROM purchases WHERE user_id = $1 AND game_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, gameID); err != nil {
		return fmt.Errorf("failed to release entitlement: %w", err)
	}
	return nil
}

func (r *UserRepository) ListPurchasedGameIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT game_id FROM purchases WHERE user_id = $1 ORDER BY granted_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
