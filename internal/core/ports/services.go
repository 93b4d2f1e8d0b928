package ports

import (
	"context"
	"time"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerService owns all balance mutations. Both operations run strictly
// inside the caller's transaction so the whole unit commits or rolls back
// together.
type LedgerService interface {
	// Debit atomically decreases the user's balance. Fails with
	// PUR_001 when the balance does not cover the amount.
	Debit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error
	// Credit atomically increases the user's balance. Amount must be positive.
	Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error
}

// PurchaseService coordinates the atomic purchase transaction.
type PurchaseService interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseReceipt, error)
}

// PurchaseRequest names the good being bought and the acting buyer.
// The buyer identity is resolved by the auth collaborator and trusted here.
type PurchaseRequest struct {
	GoodID  uuid.UUID
	BuyerID uuid.UUID
}

// PurchaseReceipt is returned to the winning buyer: the committed purchase
// record plus the credential payload, revealed exactly once.
type PurchaseReceipt struct {
	Purchase    *domain.Purchase
	Credentials domain.Credentials
}

// CatalogService manages goods and games: listing, offer pages, and the
// explicit hide/publish transitions, which use the same locking discipline
// as the purchase path.
type CatalogService interface {
	CreateGood(ctx context.Context, req CreateGoodRequest) (*domain.Good, error)
	GetOffer(ctx context.Context, goodID uuid.UUID) (*domain.Offer, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Good, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Good, error)
	Hide(ctx context.Context, goodID, actorID uuid.UUID) error
	Publish(ctx context.Context, goodID, actorID uuid.UUID) error
	// RevealCredentials returns the payload of a sold good to its recorded
	// buyer or to the seller; everyone else gets MKT_002.
	RevealCredentials(ctx context.Context, goodID, requesterID uuid.UUID) (*domain.Credentials, error)

	CreateGame(ctx context.Context, name, image string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	CountGames(ctx context.Context) (int64, error)
	SearchGames(ctx context.Context, query string) ([]domain.Game, error)
}

// CreateGoodRequest holds validated input for listing a new good.
type CreateGoodRequest struct {
	SellerID    uuid.UUID
	GameID      uuid.UUID
	Name        string
	Description *string
	Price       int64
	Credentials domain.Credentials
}

// AuthService defines authentication business logic.
type AuthService interface {
	// Register creates an account and returns a signed token.
	Register(ctx context.Context, req RegisterRequest) (string, error)
	// Login validates credentials and returns a signed token.
	Login(ctx context.Context, email, password string) (string, error)
	// Refresh re-issues a token for an authenticated user.
	Refresh(ctx context.Context, userID uuid.UUID) (string, error)
}

// RegisterRequest holds validated input for account registration.
type RegisterRequest struct {
	Login    string
	Email    string
	Password string
}

// AccountService manages user accounts: profile, top-ups, and role
// administration. Top-ups go through the Ledger; the balance column has no
// other writer.
type AccountService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Topup(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, description *string, avatar *string) (*domain.User, error)
	Block(ctx context.Context, userID uuid.UUID) error
	Unblock(ctx context.Context, userID uuid.UUID) error
	GrantSupport(ctx context.Context, userID uuid.UUID) error
	RevokeSupport(ctx context.Context, userID uuid.UUID) error
	IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ReportingService exposes the read side of the purchase history.
type ReportingService interface {
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error)
	ListSales(ctx context.Context, sellerID uuid.UUID) ([]domain.PurchaseRecord, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReviewService manages seller reviews.
type ReviewService interface {
	Submit(ctx context.Context, req SubmitReviewRequest) (*domain.Review, error)
	HasReview(ctx context.Context, buyerID, goodID uuid.UUID) (bool, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Review, error)
}

// SubmitReviewRequest holds validated input for a review.
type SubmitReviewRequest struct {
	BuyerID  uuid.UUID
	SellerID uuid.UUID
	GoodID   uuid.UUID
	Rate     int
	Comment  *string
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Login  string
	Email  string
	Role   domain.UserRole
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// CatalogCache is a best-effort read cache for game listing pages.
// It is invalidated on every visibility change; a miss or error always
// falls through to the store.
type CatalogCache interface {
	GetGameListing(ctx context.Context, gameID uuid.UUID) ([]byte, error) // nil, nil on miss
	SetGameListing(ctx context.Context, gameID uuid.UUID, payload []byte, ttl time.Duration) error
	InvalidateGame(ctx context.Context, gameID uuid.UUID) error
}
