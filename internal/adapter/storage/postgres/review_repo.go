package postgres

import (
	"context"
	"fmt"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
)

const reviewColumns = `id, buyer_id, seller_id, good_id, rate, comment, created_at, updated_at`

// ReviewRepo implements ports.ReviewRepository.
type ReviewRepo struct {
	pool Pool
}

// NewReviewRepo creates a new ReviewRepo.
func NewReviewRepo(pool Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// Upsert inserts the review, or replaces rate and comment when the buyer
// already reviewed this good.
func (r *ReviewRepo) Upsert(ctx context.Context, rev *domain.Review) (*domain.Review, error) {
	query := `INSERT INTO reviews (id, buyer_id, seller_id, good_id, rate, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (buyer_id, good_id) DO UPDATE
			SET rate = EXCLUDED.rate, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING ` + reviewColumns

	out := &domain.Review{}
	err := r.pool.QueryRow(ctx, query,
		rev.ID, rev.BuyerID, rev.SellerID, rev.GoodID, rev.Rate, rev.Comment,
		rev.CreatedAt, rev.UpdatedAt,
	).Scan(
		&out.ID, &out.BuyerID, &out.SellerID, &out.GoodID, &out.Rate, &out.Comment,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}
	return out, nil
}

// Exists reports whether the buyer has reviewed the good.
func (r *ReviewRepo) Exists(ctx context.Context, buyerID, goodID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE buyer_id = $1 AND good_id = $2)`,
		buyerID, goodID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}
	return exists, nil
}

// ListBySeller returns a seller's reviews, newest first.
func (r *ReviewRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE seller_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by seller: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.BuyerID, &rev.SellerID, &rev.GoodID, &rev.Rate, &rev.Comment, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
