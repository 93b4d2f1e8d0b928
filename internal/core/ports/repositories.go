package ports

import (
	"context"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for user accounts.
// Methods accepting pgx.Tx run inside transaction blocks; the balance
// mutations are invoked only by the Ledger.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByLoginOrEmail(ctx context.Context, login, email string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error)
	// DebitBalance decreases the balance by amount only when the current
	// balance covers it. Returns false when the decrement was not applied.
	DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error)
	// CreditBalance increases the balance by amount. Returns false when the
	// user does not exist.
	CreditBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error)
	UpdateRole(ctx context.Context, tx pgx.Tx, id uuid.UUID, role domain.UserRole) error
	UpdateProfile(ctx context.Context, id uuid.UUID, description *string, avatar *string) (*domain.User, error)
}

// GoodRepository defines persistence operations for goods.
// The availability transitions are guarded updates: they apply only from the
// expected state and report whether a row was affected. Callers must hold
// the row lock (GetByIDForUpdate) before checking state.
type GoodRepository interface {
	Create(ctx context.Context, good *domain.Good) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Good, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Good, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Good, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Good, error)
	// MarkSold flips LISTED -> SOLD. Returns false if the good was not LISTED.
	MarkSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	// MarkListed flips SOLD -> LISTED. Returns false if the good was not SOLD.
	MarkListed(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	HideAllBySeller(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error
}

// PurchaseRepository is the append-only purchase history store.
// No update or delete operations exist.
type PurchaseRepository interface {
	Create(ctx context.Context, tx pgx.Tx, purchase *domain.Purchase) error
	GetByGoodID(ctx context.Context, goodID uuid.UUID) (*domain.Purchase, error)
	// GetByGoodIDTx reads through an open transaction, for callers that
	// must see the history and flip visibility in the same unit.
	GetByGoodIDTx(ctx context.Context, tx pgx.Tx, goodID uuid.UUID) (*domain.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.PurchaseRecord, error)
}

// GameRepository defines persistence operations for the games catalog.
type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	List(ctx context.Context) ([]domain.Game, error)
	Count(ctx context.Context) (int64, error)
	SearchByName(ctx context.Context, query string) ([]domain.Game, error)
}

// ReviewRepository defines persistence operations for seller reviews.
type ReviewRepository interface {
	// Upsert inserts the review or replaces an existing one by (buyer, good).
	Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Exists(ctx context.Context, buyerID, goodID uuid.UUID) (bool, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Review, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
