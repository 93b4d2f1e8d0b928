package postgres

import (
	"context"
	"errors"
	"fmt"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, login, email, password_hash, role, balance, rate, description, avatar, created_at, updated_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.Role,
		&u.Balance, &u.Rate, &u.Description, &u.Avatar,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, login, email, password_hash, role, balance, rate, description, avatar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Login, u.Email, u.PasswordHash, u.Role,
		u.Balance, u.Rate, u.Description, u.Avatar,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by ID (non-locking read).
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByLoginOrEmail fetches a user matching either login or email,
// used for the registration uniqueness check.
func (r *UserRepo) GetByLoginOrEmail(ctx context.Context, login, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = $2`

	u, err := scanUser(r.pool.QueryRow(ctx, query, login, email))
	if err != nil {
		return nil, fmt.Errorf("get user by login or email: %w", err)
	}
	return u, nil
}

// GetByIDForUpdate fetches a user with pessimistic locking.
// This MUST be called within a transaction.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

// DebitBalance conditionally decrements the balance within a transaction.
// The predicate keeps a balance from ever going below zero, even when two
// transactions debit the same user concurrently.
func (r *UserRepo) DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error) {
	query := `UPDATE users SET balance = balance - $1, updated_at = NOW() WHERE id = $2 AND balance >= $1`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return false, fmt.Errorf("debit balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreditBalance increments the balance within a transaction.
func (r *UserRepo) CreditBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (bool, error) {
	query := `UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amount, id)
	if err != nil {
		return false, fmt.Errorf("credit balance: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateRole sets the user's role within a transaction.
func (r *UserRepo) UpdateRole(ctx context.Context, tx pgx.Tx, id uuid.UUID, role domain.UserRole) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateProfile updates the mutable profile fields, keeping existing values
// for fields passed as nil.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, description *string, avatar *string) (*domain.User, error) {
	query := `UPDATE users
		SET description = COALESCE($1, description),
		    avatar = COALESCE($2, avatar),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, description, avatar, id))
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}
