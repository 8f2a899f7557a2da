package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CardTypeCredit = "credit"
	CardTypeDebit  = "debit"
)

// Card stores the number and CCV only as cipher envelopes. Plaintext exists
// in memory during registration and is never persisted or logged.
type Card struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Type         string
	NumberEnc    string
	CCVEnc       string
	ExpiresAt    time.Time
	RegisteredAt time.Time
}

// CardView omits the encrypted fields entirely; not even ciphertext leaves
// the service layer.
type CardView struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Type         string    `json:"type"`
	ExpiresAt    time.Time `json:"expires_at"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (c *Card) View() CardView {
	return CardView{
		ID:           c.ID,
		UserID:       c.UserID,
		Type:         c.Type,
		ExpiresAt:    c.ExpiresAt,
		RegisteredAt: c.RegisteredAt,
	}
}
