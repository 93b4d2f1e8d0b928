package domain

import (
	"time"

	"github.com/google/uuid"
)

// GoodVisibility is the availability state of a listed good.
type GoodVisibility string

const (
	// VisibilityListed means the good is purchasable.
	VisibilityListed GoodVisibility = "LISTED"
	// VisibilitySold means the good was sold or explicitly hidden and
	// cannot be purchased.
	VisibilitySold GoodVisibility = "SOLD"
)

// CredentialSchemaVersion identifies the credential payload layout.
const CredentialSchemaVersion = 1

// Credentials is the fixed, versioned credential bundle attached to a good.
// It is opaque to the purchase engine and revealed only once, to the buyer.
type Credentials struct {
	SchemaVersion int    `json:"schema_version"`
	Login         string `json:"login"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	EmailPassword string `json:"email_password"`
}

// Good represents a listed digital item tied to a game and a seller.
type Good struct {
	ID          uuid.UUID      `json:"id"`
	SellerID    uuid.UUID      `json:"seller_id"`
	GameID      uuid.UUID      `json:"game_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Price       int64          `json:"price"` // Minor units, always positive
	Credentials Credentials    `json:"-"`     // Revealed only through a purchase receipt or guarded reveal
	Visibility  GoodVisibility `json:"visibility"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsListed returns true if the good can currently be purchased.
func (g *Good) IsListed() bool {
	return g.Visibility == VisibilityListed
}
