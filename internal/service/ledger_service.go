package service

import (
	"context"
	"fmt"

	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. It is the only writer
// of the balance column; both operations run inside the caller's
// transaction and are atomic with the rest of the unit.
type LedgerServiceImpl struct {
	userRepo ports.UserRepository
	log      zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(userRepo ports.UserRepository, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		userRepo: userRepo,
		log:      log,
	}
}

// Debit decreases the user's balance. The decrement is conditional on the
// balance covering the amount, so the non-negativity invariant holds even
// if the caller's pre-check raced with another writer.
func (s *LedgerServiceImpl) Debit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	applied, err := s.userRepo.DebitBalance(ctx, tx, userID, amount)
	if err != nil {
		return storeError(fmt.Errorf("debit balance: %w", err))
	}
	if !applied {
		return apperror.ErrInsufficientFunds()
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Msg("balance debited")

	return nil
}

// Credit increases the user's balance.
func (s *LedgerServiceImpl) Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	applied, err := s.userRepo.CreditBalance(ctx, tx, userID, amount)
	if err != nil {
		return storeError(fmt.Errorf("credit balance: %w", err))
	}
	if !applied {
		return apperror.ErrNotFound("user")
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Int64("amount", amount).
		Msg("balance credited")

	return nil
}
