package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinReviewScore = 0
	MaxReviewScore = 5
)

type Review struct {
	ID        uuid.UUID `json:"id"`
	GameID    uuid.UUID `json:"game_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
