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

// ReviewServiceImpl implements ports.ReviewService. Only a buyer with a
// recorded purchase of the good may review its seller.
type ReviewServiceImpl struct {
	reviewRepo   ports.ReviewRepository
	purchaseRepo ports.PurchaseRepository
	log          zerolog.Logger
}

// NewReviewService creates a new ReviewServiceImpl.
func NewReviewService(
	reviewRepo ports.ReviewRepository,
	purchaseRepo ports.PurchaseRepository,
	log zerolog.Logger,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		reviewRepo:   reviewRepo,
		purchaseRepo: purchaseRepo,
		log:          log,
	}
}

// Submit records a review. Resubmitting for the same good replaces the
// earlier review.
func (s *ReviewServiceImpl) Submit(ctx context.Context, req ports.SubmitReviewRequest) (*domain.Review, error) {
	if req.Rate < 1 || req.Rate > 5 {
		return nil, apperror.Validation("rate must be between 1 and 5")
	}

	purchase, err := s.purchaseRepo.GetByGoodID(ctx, req.GoodID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find purchase: %w", err))
	}
	if purchase == nil || purchase.BuyerID != req.BuyerID {
		return nil, apperror.ErrForbidden()
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:        uuid.New(),
		BuyerID:   req.BuyerID,
		SellerID:  purchase.SellerID,
		GoodID:    req.GoodID,
		Rate:      req.Rate,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, storeError(fmt.Errorf("save review: %w", err))
	}

	s.log.Info().
		Str("review_id", saved.ID.String()).
		Str("seller_id", saved.SellerID.String()).
		Int("rate", saved.Rate).
		Msg("review submitted")

	return saved, nil
}

// HasReview reports whether the buyer already reviewed the good.
func (s *ReviewServiceImpl) HasReview(ctx context.Context, buyerID, goodID uuid.UUID) (bool, error) {
	exists, err := s.reviewRepo.Exists(ctx, buyerID, goodID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("check review: %w", err))
	}
	return exists, nil
}

// ListBySeller returns the reviews left for a seller, newest first.
func (s *ReviewServiceImpl) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list reviews: %w", err))
	}
	return reviews, nil
}
