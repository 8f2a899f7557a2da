package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable record of a purchase. Price is the game's price at
// purchase time, not a live reference.
type Order struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	GameID      uuid.UUID `json:"game_id"`
	Price       int64     `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}
