package service

import (
	"context"
	"testing"

	"credential-market/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupLedgerService(t *testing.T) (*LedgerServiceImpl, *mocks.MockUserRepository, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	svc := NewLedgerService(userRepo, zerolog.Nop())
	return svc, userRepo, ctrl
}

func TestLedgerService_Debit_Success(t *testing.T) {
	svc, userRepo, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	userRepo.EXPECT().DebitBalance(ctx, tx, userID, int64(5000)).Return(true, nil)

	err := svc.Debit(ctx, tx, userID, 5000)
	assert.NoError(t, err)
}

func TestLedgerService_Debit_InsufficientFunds(t *testing.T) {
	svc, userRepo, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	userRepo.EXPECT().DebitBalance(ctx, tx, userID, int64(5000)).Return(false, nil)

	err := svc.Debit(ctx, tx, userID, 5000)
	assertAppError(t, err, "PUR_001")
}

func TestLedgerService_Debit_InvalidAmount(t *testing.T) {
	svc, _, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	err := svc.Debit(context.Background(), &mockTx{}, uuid.New(), 0)
	assertAppError(t, err, "PUR_002")

	err = svc.Debit(context.Background(), &mockTx{}, uuid.New(), -100)
	assertAppError(t, err, "PUR_002")
}

func TestLedgerService_Credit_Success(t *testing.T) {
	svc, userRepo, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	userRepo.EXPECT().CreditBalance(ctx, tx, userID, int64(7000)).Return(true, nil)

	err := svc.Credit(ctx, tx, userID, 7000)
	assert.NoError(t, err)
}

func TestLedgerService_Credit_UserNotFound(t *testing.T) {
	svc, userRepo, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	tx := &mockTx{}

	userRepo.EXPECT().CreditBalance(ctx, tx, userID, int64(7000)).Return(false, nil)

	err := svc.Credit(ctx, tx, userID, 7000)
	assertAppError(t, err, "MKT_001")
}

func TestLedgerService_Credit_InvalidAmount(t *testing.T) {
	svc, _, ctrl := setupLedgerService(t)
	defer ctrl.Finish()

	err := svc.Credit(context.Background(), &mockTx{}, uuid.New(), -1)
	assertAppError(t, err, "PUR_002")
}
