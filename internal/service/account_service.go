package service

import (
	"context"
	"fmt"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountServiceImpl implements ports.AccountService.
type AccountServiceImpl struct {
	userRepo   ports.UserRepository
	goodRepo   ports.GoodRepository
	ledger     ports.LedgerService
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewAccountService creates a new AccountServiceImpl.
func NewAccountService(
	userRepo ports.UserRepository,
	goodRepo ports.GoodRepository,
	ledger ports.LedgerService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		userRepo:   userRepo,
		goodRepo:   goodRepo,
		ledger:     ledger,
		transactor: transactor,
		log:        log,
	}
}

// GetUser returns the account by ID.
func (s *AccountServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}
	return user, nil
}

// Topup adds funds to the account through the Ledger and returns the new
// balance. The user row is locked for the duration so the returned balance
// reflects exactly this credit.
func (s *AccountServiceImpl) Topup(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, storeError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return 0, storeError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return 0, apperror.ErrNotFound("user")
	}
	if user.IsBlocked() {
		return 0, apperror.ErrAccountBlocked()
	}

	if err := s.ledger.Credit(ctx, dbTx, userID, amount); err != nil {
		return 0, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, storeError(fmt.Errorf("commit tx: %w", err))
	}

	newBalance := user.Balance + amount

	s.log.Info().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Int64("balance", newBalance).
		Msg("account topped up")

	return newBalance, nil
}

// UpdateProfile updates the mutable profile fields. Nil fields are left
// unchanged.
func (s *AccountServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, description *string, avatar *string) (*domain.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, id, description, avatar)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update profile: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}
	return user, nil
}

// Block sets the BLOCKED role and hides every listed good of the account
// in the same transaction, so a blocked seller's goods can never be bought.
func (s *AccountServiceImpl) Block(ctx context.Context, userID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return storeError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return storeError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return apperror.ErrNotFound("user")
	}

	if err := s.userRepo.UpdateRole(ctx, dbTx, userID, domain.RoleBlocked); err != nil {
		return storeError(fmt.Errorf("update role: %w", err))
	}

	if err := s.goodRepo.HideAllBySeller(ctx, dbTx, userID); err != nil {
		return storeError(fmt.Errorf("hide goods: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return storeError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("user_id", userID.String()).Msg("account blocked")
	return nil
}

// Unblock restores the USER role. Hidden goods stay hidden; the seller
// republishes them explicitly.
func (s *AccountServiceImpl) Unblock(ctx context.Context, userID uuid.UUID) error {
	return s.setRole(ctx, userID, domain.RoleUser, "account unblocked")
}

// GrantSupport promotes the account to SUPPORT.
func (s *AccountServiceImpl) GrantSupport(ctx context.Context, userID uuid.UUID) error {
	return s.setRole(ctx, userID, domain.RoleSupport, "support granted")
}

// RevokeSupport demotes the account back to USER.
func (s *AccountServiceImpl) RevokeSupport(ctx context.Context, userID uuid.UUID) error {
	return s.setRole(ctx, userID, domain.RoleUser, "support revoked")
}

// IsBlocked reports whether the account currently has the BLOCKED role.
func (s *AccountServiceImpl) IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return false, apperror.ErrNotFound("user")
	}
	return user.IsBlocked(), nil
}

func (s *AccountServiceImpl) setRole(ctx context.Context, userID uuid.UUID, role domain.UserRole, msg string) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return storeError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return storeError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return apperror.ErrNotFound("user")
	}

	if err := s.userRepo.UpdateRole(ctx, dbTx, userID, role); err != nil {
		return storeError(fmt.Errorf("update role: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return storeError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("user_id", userID.String()).Str("role", string(role)).Msg(msg)
	return nil
}
