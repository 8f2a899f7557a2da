package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustBalance applies delta (negative for a debit) as one conditional
	// update: the write happens only if the resulting balance is >= 0.
	// Returns domain.ErrInsufficientBalance otherwise; the caller must have
	// already established that the user exists.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error)

	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expires time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// SetRefreshTokenHash installs (or clears, with nil) the stored refresh
	// token hash unconditionally. Used on login and logout.
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error

	// ReplaceRefreshTokenHash swaps old for new only if old is still the
	// stored hash, and reports whether the swap happened. This is the atomic
	// rotation step: two concurrent refreshes with the same token cannot
	// both succeed.
	ReplaceRefreshTokenHash(ctx context.Context, id uuid.UUID, old, new string) (bool, error)

	HasPurchased(ctx context.Context, userID, gameID uuid.UUID) (bool, error)
	// AddPurchasedGame claims the (user, game) entitlement and reports
	// whether this call inserted it. A false return means the pair was
	// already claimed and nothing changed; of two concurrent claims exactly
	// one sees true.
	AddPurchasedGame(ctx context.Context, userID, gameID uuid.UUID) (bool, error)
	// RemovePurchasedGame releases a claim, for unwinding a purchase whose
	// debit never landed.
	RemovePurchasedGame(ctx context.Context, userID, gameID uuid.UUID) error
	ListPurchasedGameIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type RegisterUserInput struct {
	Nickname string
	Email    string
	Password string
}

type UpdateUserInput struct {
	Nickname *string
	Email    *string
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.UserView, error)
	VerifyEmail(ctx context.Context, email, code string) (*domain.UserView, error)
	ResendVerificationCode(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, current, new string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.UserView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
