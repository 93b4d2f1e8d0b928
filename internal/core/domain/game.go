package domain

import (
	"time"

	"github.com/google/uuid"
)

// Game is a catalog entry goods are listed under.
type Game struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"img"`
	CreatedAt time.Time `json:"created_at"`
}
