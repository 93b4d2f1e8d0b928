package postgres

import (
	"context"
	"errors"
	"fmt"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PurchaseRepo implements ports.PurchaseRepository. The purchases table is
// append-only; this type deliberately exposes no update or delete.
type PurchaseRepo struct {
	pool Pool
}

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(pool Pool) *PurchaseRepo {
	return &PurchaseRepo{pool: pool}
}

// Create appends a purchase record within the purchase transaction.
func (r *PurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	query := `INSERT INTO purchases (id, buyer_id, seller_id, good_id, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, p.ID, p.BuyerID, p.SellerID, p.GoodID, p.Price, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPurchaseByGoodID(ctx context.Context, q rowQuerier, goodID uuid.UUID) (*domain.Purchase, error) {
	query := `SELECT id, buyer_id, seller_id, good_id, price, created_at
		FROM purchases WHERE good_id = $1 ORDER BY created_at DESC LIMIT 1`

	p := &domain.Purchase{}
	err := q.QueryRow(ctx, query, goodID).Scan(
		&p.ID, &p.BuyerID, &p.SellerID, &p.GoodID, &p.Price, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase by good: %w", err)
	}
	return p, nil
}

// GetByGoodID fetches the purchase of a good, if any. A good maps to at
// most one purchase since it becomes unlistable after sale.
func (r *PurchaseRepo) GetByGoodID(ctx context.Context, goodID uuid.UUID) (*domain.Purchase, error) {
	return getPurchaseByGoodID(ctx, r.pool, goodID)
}

// GetByGoodIDTx is GetByGoodID through an open transaction.
func (r *PurchaseRepo) GetByGoodIDTx(ctx context.Context, tx pgx.Tx, goodID uuid.UUID) (*domain.Purchase, error) {
	return getPurchaseByGoodID(ctx, tx, goodID)
}

func (r *PurchaseRepo) listBy(ctx context.Context, column string, userID uuid.UUID) ([]domain.PurchaseRecord, error) {
	query := `SELECT p.id, p.buyer_id, p.seller_id, p.good_id, p.price, p.created_at, g.name
		FROM purchases p
		JOIN goods g ON p.good_id = g.id
		WHERE p.` + column + ` = $1
		ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PurchaseRecord
	for rows.Next() {
		var rec domain.PurchaseRecord
		if err := rows.Scan(&rec.ID, &rec.BuyerID, &rec.SellerID, &rec.GoodID, &rec.Price, &rec.CreatedAt, &rec.GoodName); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByBuyer returns the buyer's purchases, newest first.
func (r *PurchaseRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	records, err := r.listBy(ctx, "buyer_id", buyerID)
	if err != nil {
		return nil, fmt.Errorf("list purchases by buyer: %w", err)
	}
	return records, nil
}

// ListBySeller returns the seller's sales, newest first.
func (r *PurchaseRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.PurchaseRecord, error) {
	records, err := r.listBy(ctx, "seller_id", sellerID)
	if err != nil {
		return nil, fmt.Errorf("list purchases by seller: %w", err)
	}
	return records, nil
}
