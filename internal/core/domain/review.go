package domain

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a seller for a specific good.
// One review per (buyer, good); resubmitting replaces the old one.
type Review struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	GoodID    uuid.UUID `json:"good_id"`
	Rate      int       `json:"rate"` // 1..5
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
