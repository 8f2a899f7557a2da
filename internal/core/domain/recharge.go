package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recharge is written before the balance credit lands, so a crash between
// the two leaves an auditable record of the intended credit.
type Recharge struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CardID    uuid.UUID `json:"card_id"`
	Coins     int64     `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
}
