package domain

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is the immutable record of a completed sale. It is created
// exactly once per successful purchase transaction and never updated.
type Purchase struct {
	ID        uuid.UUID `json:"id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	GoodID    uuid.UUID `json:"good_id"`
	Price     int64     `json:"price"` // Price paid, snapshotted at sale time
	CreatedAt time.Time `json:"created_at"`
}

// PurchaseRecord is a purchase joined with its good, as returned by the
// history listings.
type PurchaseRecord struct {
	Purchase
	GoodName string `json:"good_name"`
}
