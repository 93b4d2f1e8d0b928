package postgres

import (
	"context"
	"errors"
	"fmt"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const goodColumns = `id, seller_id, game_id, name, description, price,
		cred_schema_version, cred_login, cred_password, cred_email, cred_email_password,
		visibility, created_at, updated_at`

// GoodRepo implements ports.GoodRepository.
type GoodRepo struct {
	pool Pool
}

// NewGoodRepo creates a new GoodRepo.
func NewGoodRepo(pool Pool) *GoodRepo {
	return &GoodRepo{pool: pool}
}

func scanGood(row pgx.Row) (*domain.Good, error) {
	g := &domain.Good{}
	err := row.Scan(
		&g.ID, &g.SellerID, &g.GameID, &g.Name, &g.Description, &g.Price,
		&g.Credentials.SchemaVersion, &g.Credentials.Login, &g.Credentials.Password,
		&g.Credentials.Email, &g.Credentials.EmailPassword,
		&g.Visibility, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

// Create inserts a new good, always LISTED.
func (r *GoodRepo) Create(ctx context.Context, g *domain.Good) error {
	query := `INSERT INTO goods (id, seller_id, game_id, name, description, price,
			cred_schema_version, cred_login, cred_password, cred_email, cred_email_password,
			visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		g.ID, g.SellerID, g.GameID, g.Name, g.Description, g.Price,
		g.Credentials.SchemaVersion, g.Credentials.Login, g.Credentials.Password,
		g.Credentials.Email, g.Credentials.EmailPassword,
		g.Visibility, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert good: %w", err)
	}
	return nil
}

// GetByID fetches a good by ID (non-locking read).
func (r *GoodRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Good, error) {
	query := `SELECT ` + goodColumns + ` FROM goods WHERE id = $1`

	g, err := scanGood(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get good by id: %w", err)
	}
	return g, nil
}

// GetByIDForUpdate fetches a good with an exclusive row lock. Every
// availability check and transition starts with this read.
// This MUST be called within a transaction.
func (r *GoodRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Good, error) {
	query := `SELECT ` + goodColumns + ` FROM goods WHERE id = $1 FOR UPDATE`

	g, err := scanGood(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get good for update: %w", err)
	}
	return g, nil
}

// GetOffer fetches the public offer projection: the good joined with the
// seller and the game.
func (r *GoodRepo) GetOffer(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := `SELECT g.id, g.seller_id, g.game_id, g.name, g.description, g.price,
			g.cred_schema_version, g.cred_login, g.cred_password, g.cred_email, g.cred_email_password,
			g.visibility, g.created_at, g.updated_at,
			u.login, u.rate, u.avatar, gm.img
		FROM goods g
		JOIN users u ON g.seller_id = u.id
		JOIN games gm ON g.game_id = gm.id
		WHERE g.id = $1`

	o := &domain.Offer{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.SellerID, &o.GameID, &o.Name, &o.Description, &o.Price,
		&o.Credentials.SchemaVersion, &o.Credentials.Login, &o.Credentials.Password,
		&o.Credentials.Email, &o.Credentials.EmailPassword,
		&o.Visibility, &o.CreatedAt, &o.UpdatedAt,
		&o.SellerLogin, &o.SellerRate, &o.SellerAvatar, &o.GameImage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

func (r *GoodRepo) list(ctx context.Context, query string, arg any) ([]domain.Good, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goods []domain.Good
	for rows.Next() {
		g, err := scanGood(rows)
		if err != nil {
			return nil, err
		}
		goods = append(goods, *g)
	}
	return goods, rows.Err()
}

// ListByGame returns the listed goods for a game.
func (r *GoodRepo) ListByGame(ctx context.Context, gameID uuid.UUID) ([]domain.Good, error) {
	query := `SELECT ` + goodColumns + ` FROM goods WHERE game_id = $1 AND visibility = 'LISTED' ORDER BY created_at DESC`

	goods, err := r.list(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("list goods by game: %w", err)
	}
	return goods, nil
}

// ListBySeller returns the listed goods of a seller.
func (r *GoodRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Good, error) {
	query := `SELECT ` + goodColumns + ` FROM goods WHERE seller_id = $1 AND visibility = 'LISTED' ORDER BY created_at DESC`

	goods, err := r.list(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list goods by seller: %w", err)
	}
	return goods, nil
}

// MarkSold flips LISTED -> SOLD within a transaction. The state guard in the
// predicate, combined with the caller's row lock, is what makes a double
// sale impossible: the second transaction affects zero rows.
func (r *GoodRepo) MarkSold(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `UPDATE goods SET visibility = 'SOLD', updated_at = NOW() WHERE id = $1 AND visibility = 'LISTED'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark good sold: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkListed flips SOLD -> LISTED within a transaction (explicit re-publish
// only; never reached from the purchase path).
func (r *GoodRepo) MarkListed(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `UPDATE goods SET visibility = 'LISTED', updated_at = NOW() WHERE id = $1 AND visibility = 'SOLD'`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark good listed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// HideAllBySeller hides every listed good of a seller within a transaction,
// used when an account is blocked.
func (r *GoodRepo) HideAllBySeller(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error {
	query := `UPDATE goods SET visibility = 'SOLD', updated_at = NOW() WHERE seller_id = $1 AND visibility = 'LISTED'`

	if _, err := tx.Exec(ctx, query, sellerID); err != nil {
		return fmt.Errorf("hide goods by seller: %w", err)
	}
	return nil
}
