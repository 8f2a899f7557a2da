package domain

import (
	"time"

	"github.com/google/uuid"
)

type Game struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genres      []string   `json:"genres"`
	Price       int64      `json:"price"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	Earnings    int64      `json:"-"`
	Downloads   int64      `json:"downloads"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
