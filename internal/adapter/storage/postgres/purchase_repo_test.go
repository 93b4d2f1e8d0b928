package postgres

import (
	"context"
	"testing"
	"time"

	"credential-market/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchase() *domain.Purchase {
	return &domain.Purchase{
		ID:        uuid.New(),
		BuyerID:   uuid.New(),
		SellerID:  uuid.New(),
		GoodID:    uuid.New(),
		Price:     6000,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPurchaseRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	p := newTestPurchase()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs(p.ID, p.BuyerID, p.SellerID, p.GoodID, p.Price, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByGoodID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	p := newTestPurchase()

	mock.ExpectQuery("SELECT .+ FROM purchases WHERE good_id").
		WithArgs(p.GoodID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "good_id", "price", "created_at"}).
			AddRow(p.ID, p.BuyerID, p.SellerID, p.GoodID, p.Price, p.CreatedAt))

	result, err := repo.GetByGoodID(context.Background(), p.GoodID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.BuyerID, result.BuyerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByGoodIDTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	p := newTestPurchase()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM purchases WHERE good_id").
		WithArgs(p.GoodID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "good_id", "price", "created_at"}).
			AddRow(p.ID, p.BuyerID, p.SellerID, p.GoodID, p.Price, p.CreatedAt))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByGoodIDTx(context.Background(), tx, p.GoodID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.BuyerID, result.BuyerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_GetByGoodID_NoSale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	goodID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM purchases WHERE good_id").
		WithArgs(goodID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "good_id", "price", "created_at"}))

	result, err := repo.GetByGoodID(context.Background(), goodID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_ListByBuyer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	buyerID := uuid.New()
	p := newTestPurchase()

	mock.ExpectQuery(`SELECT .+ FROM purchases p\s+JOIN goods g .+ WHERE p\.buyer_id`).
		WithArgs(buyerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "good_id", "price", "created_at", "name"}).
			AddRow(p.ID, buyerID, p.SellerID, p.GoodID, p.Price, p.CreatedAt, "endgame account"))

	records, err := repo.ListByBuyer(context.Background(), buyerID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "endgame account", records[0].GoodName)
	assert.Equal(t, int64(6000), records[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepo_ListBySeller_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPurchaseRepo(mock)
	sellerID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM purchases p\s+JOIN goods g .+ WHERE p\.seller_id`).
		WithArgs(sellerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "buyer_id", "seller_id", "good_id", "price", "created_at", "name"}))

	records, err := repo.ListBySeller(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
