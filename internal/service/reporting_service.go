package service

import (
	"context"
	"fmt"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
)

// ReportingServiceImpl implements ports.ReportingService: the read side
// of the purchase history.
type ReportingServiceImpl struct {
	purchaseRepo ports.PurchaseRepository
	userRepo     ports.UserRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(purchaseRepo ports.PurchaseRepository, userRepo ports.UserRepository) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
	}
}

// ListPurchases returns the buyer's purchases, newest first.
func (s *ReportingServiceImpl) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	records, err := s.purchaseRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list purchases: %w", err))
	}
	return records, nil
}

// ListSales returns the seller's sales, newest first.
func (s *ReportingServiceImpl) ListSales(ctx context.Context, sellerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	records, err := s.purchaseRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list sales: %w", err))
	}
	return records, nil
}

// GetBalance returns the user's current balance.
func (s *ReportingServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return 0, apperror.ErrNotFound("user")
	}
	return user.Balance, nil
}
