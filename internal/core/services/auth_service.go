package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authService struct {
	users         ports.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *zap.Logger
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewAuthService(users ports.UserRepository, cfg AuthConfig, logger *zap.Logger) ports.AuthService {
	return &authService{
		users:         users,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		logger:        logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.UserView, ports.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ports.TokenPair{}, domain.ErrUnauthorized
	}
	if !user.IsVerified {
		return nil, ports.TokenPair{}, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ports.TokenPair{}, domain.ErrUnauthorized
	}

	pair, refreshHash, err := s.mintPair(user)
	if err != nil {
		return nil, ports.TokenPair{}, err
	}
	if err := s.users.SetRefreshTokenHash(ctx, user.ID, &refreshHash); err != nil {
		return nil, ports.TokenPair{}, fmt.Errorf("failed to store refresh token hash: %w", err)
	}

	view := user.View()
	return &view, pair, nil
}

// Refresh rotates on use. Signature failure, expiry, missing stored hash and
// hash mismatch all collapse to ErrUnauthorized so callers cannot tell which
// check rejected them.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	identity, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return ports.TokenPair{}, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.RefreshTokenHash == nil {
		return ports.TokenPair{}, domain.ErrUnauthorized
	}

	presented := hashToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshTokenHash)) != 1 {
		return ports.TokenPair{}, domain.ErrUnauthorized
	}

	pair, newHash, err := s.mintPair(user)
	if err != nil {
		return ports.TokenPair{}, err
	}

	// Replace-if-matches: if another refresh won the race the stored hash no
	// longer equals the presented one and this token is already dead.
	replaced, err := s.users.ReplaceRefreshTokenHash(ctx, user.ID, presented, newHash)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !replaced {
		return ports.TokenPair{}, domain.ErrUnauthorized
	}
	return pair, nil
}

func (s *authService) VerifyAccess(token string) (domain.Identity, error) {
	identity, err := s.parse(token, s.accessSecret)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return identity, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetRefreshTokenHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token hash: %w", err)
	}
	return nil
}

func (s *authService) mintPair(user *domain.User) (ports.TokenPair, string, error) {
	access, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return ports.TokenPair{}, "", fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, hashToken(refresh), nil
}

func (s *authService) sign(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *authService) parse(token string, secret []byte) (domain.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
