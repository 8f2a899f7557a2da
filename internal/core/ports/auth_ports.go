package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
)

// TokenPair bundles a short-lived access token with its longer-lived refresh
// token. The refresh token is returned exactly once; only its hash is kept.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.UserView, TokenPair, error)
	// Refresh rotates on use: the presented token is permanently dead after a
	// successful call, even if it had time left. Every failure mode collapses
	// to domain.ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	VerifyAccess(token string) (domain.Identity, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}
