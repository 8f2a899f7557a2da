package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the internal record, including credential material. It must never
// be serialized to a client; use View for that.
type User struct {
	ID               uuid.UUID
	Nickname         string
	Email            string
	PasswordHash     string
	Role             string
	Balance          int64
	IsVerified       bool
	RefreshTokenHash *string
	VerificationCode *string
	VerificationExp  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID         uuid.UUID `json:"id"`
	Nickname   string    `json:"nickname"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Balance    int64     `json:"balance"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) View() UserView {
	return UserView{
		ID:         u.ID,
		Nickname:   u.Nickname,
		Email:      u.Email,
		Role:       u.Role,
		Balance:    u.Balance,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// Identity is what an access token proves about a caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}
