package service

import (
	"context"
	"fmt"
	"time"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PurchaseServiceImpl implements ports.PurchaseService: the atomic
// purchase transaction with pessimistic locking.
//
// Lock order is good first, then buyer. Every writer that touches both
// rows follows the same order, so lock cycles cannot form.
type PurchaseServiceImpl struct {
	goodRepo     ports.GoodRepository
	userRepo     ports.UserRepository
	purchaseRepo ports.PurchaseRepository
	ledger       ports.LedgerService
	cache        ports.CatalogCache
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewPurchaseService creates a new PurchaseServiceImpl.
func NewPurchaseService(
	goodRepo ports.GoodRepository,
	userRepo ports.UserRepository,
	purchaseRepo ports.PurchaseRepository,
	ledger ports.LedgerService,
	cache ports.CatalogCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PurchaseServiceImpl {
	return &PurchaseServiceImpl{
		goodRepo:     goodRepo,
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		ledger:       ledger,
		cache:        cache,
		transactor:   transactor,
		log:          log,
	}
}

// Purchase executes the purchase transaction. All validation happens
// after the good row is locked, so the availability check cannot race
// with a concurrent buyer: of N concurrent attempts on the same good,
// exactly one observes LISTED and wins; the rest fail with PUR_003.
func (s *PurchaseServiceImpl) Purchase(ctx context.Context, req ports.PurchaseRequest) (*ports.PurchaseReceipt, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, storeError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get good
	good, err := s.goodRepo.GetByIDForUpdate(ctx, dbTx, req.GoodID)
	if err != nil {
		return nil, storeError(fmt.Errorf("lock good: %w", err))
	}
	if good == nil {
		return nil, apperror.ErrNotFound("good")
	}

	// Availability check under the lock
	if !good.IsListed() {
		return nil, apperror.ErrGoodUnavailable()
	}
	if good.SellerID == req.BuyerID {
		return nil, apperror.ErrSelfPurchase()
	}

	// Lock & get buyer
	buyer, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, req.BuyerID)
	if err != nil {
		return nil, storeError(fmt.Errorf("lock buyer: %w", err))
	}
	if buyer == nil {
		return nil, apperror.ErrNotFound("buyer")
	}
	if buyer.IsBlocked() {
		return nil, apperror.ErrAccountBlocked()
	}

	// Business rule: sufficient funds. The Ledger re-checks this inside
	// the conditional decrement; this check only produces a cleaner error
	// before any write happens.
	if buyer.Balance < good.Price {
		return nil, apperror.ErrInsufficientFunds()
	}

	// Move money: debit buyer, credit seller
	if err := s.ledger.Debit(ctx, dbTx, req.BuyerID, good.Price); err != nil {
		return nil, err
	}
	if err := s.ledger.Credit(ctx, dbTx, good.SellerID, good.Price); err != nil {
		return nil, err
	}

	// Flip availability: guarded LISTED -> SOLD
	flipped, err := s.goodRepo.MarkSold(ctx, dbTx, good.ID)
	if err != nil {
		return nil, storeError(fmt.Errorf("mark sold: %w", err))
	}
	if !flipped {
		return nil, apperror.ErrGoodUnavailable()
	}

	// Append the immutable history record
	purchase := &domain.Purchase{
		ID:        uuid.New(),
		BuyerID:   req.BuyerID,
		SellerID:  good.SellerID,
		GoodID:    good.ID,
		Price:     good.Price,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.purchaseRepo.Create(ctx, dbTx, purchase); err != nil {
		return nil, storeError(fmt.Errorf("create purchase: %w", err))
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, storeError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit: drop the cached listing page (best-effort)
	if err := s.cache.InvalidateGame(ctx, good.GameID); err != nil {
		s.log.Warn().Err(err).Str("game_id", good.GameID.String()).Msg("failed to invalidate game listing cache")
	}

	s.log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("good_id", good.ID.String()).
		Str("buyer_id", req.BuyerID.String()).
		Str("seller_id", good.SellerID.String()).
		Int64("price", good.Price).
		Msg("purchase completed")

	return &ports.PurchaseReceipt{
		Purchase:    purchase,
		Credentials: good.Credentials,
	}, nil
}
