package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type userService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	codeTTL  time.Duration
	logger   *zap.Logger
}

func NewUserService(users ports.UserRepository, notifier ports.Notifier, codeTTL time.Duration, logger *zap.Logger) ports.UserService {
	return &userService{
		users:    users,
		notifier: notifier,
		codeTTL:  codeTTL,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, input ports.RegisterUserInput) (*domain.UserView, error) {
	nickname := strings.TrimSpace(input.Nickname)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if nickname == "" || email == "" {
		return nil, fmt.Errorf("%w: nickname and email are required", domain.ErrInvalidArgument)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidArgument)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	if existing, err := s.users.GetByNickname(ctx, nickname); err != nil {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: nickname already registered", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := verificationCode()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.codeTTL)

	user := &domain.User{
		ID:               uuid.New(),
		Nickname:         nickname,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             domain.RoleUser,
		Balance:          0,
		IsVerified:       false,
		VerificationCode: &code,
		VerificationExp:  &expires,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Delivery is best-effort: the account exists either way and the code
	// can be resent.
	if err := s.notifier.SendVerificationCode(ctx, user.Email, user.Nickname, code); err != nil {
		s.logger.Warn("verification email not sent",
			zap.String("email", user.Email), zap.Error(err))
	}

	view := user.View()
	return &view, nil
}

func (s *userService) VerifyEmail(ctx context.Context, email, code string) (*domain.UserView, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if user.IsVerified {
		return nil, fmt.Errorf("%w: email already verified", domain.ErrInvalidArgument)
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return nil, fmt.Errorf("%w: invalid verification code", domain.ErrInvalidArgument)
	}
	if user.VerificationExp != nil && time.Now().After(*user.VerificationExp) {
		return nil, fmt.Errorf("%w: verification code expired", domain.ErrInvalidArgument)
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark verified: %w", err)
	}
	user.IsVerified = true
	user.VerificationCode = nil
	user.VerificationExp = nil

	view := user.View()
	return &view, nil
}

func (s *userService) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	// Do not reveal whether the address is registered.
	if user == nil || user.IsVerified {
		return domain.ErrUnauthorized
	}

	code, err := verificationCode()
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationCode(ctx, user.ID, code, time.Now().Add(s.codeTTL)); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	if err := s.notifier.SendVerificationCode(ctx, user.Email, user.Nickname, code); err != nil {
		s.logger.Warn("verification email not sent",
			zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, current, new string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrUnauthorized
	}
	if len(new) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(new), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	view := user.View()
	return &view, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateUserInput) (*domain.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			} else if existing != nil {
				return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
			}
			user.Email = email
		}
	}
	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		if nickname != user.Nickname {
			if existing, err := s.users.GetByNickname(ctx, nickname); err != nil {
				return nil, fmt.Errorf("failed to check nickname: %w", err)
			} else if existing != nil {
				return nil, fmt.Errorf("%w: nickname already registered", domain.ErrConflict)
			}
			user.Nickname = nickname
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	view := user.View()
	return &view, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// verificationCode returns a 6-digit numeric code.
func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
