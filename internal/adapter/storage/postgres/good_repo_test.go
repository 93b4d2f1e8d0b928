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

func newTestGood(sellerID uuid.UUID) *domain.Good {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Good{
		ID:       uuid.New(),
		SellerID: sellerID,
		GameID:   uuid.New(),
		Name:     "endgame account",
		Price:    6000,
		Credentials: domain.Credentials{
			SchemaVersion: domain.CredentialSchemaVersion,
			Login:         "acc_login",
			Password:      "acc_pass",
			Email:         "acc@mail.com",
			EmailPassword: "mail_pass",
		},
		Visibility: domain.VisibilityListed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func goodCols() []string {
	return []string{"id", "seller_id", "game_id", "name", "description", "price",
		"cred_schema_version", "cred_login", "cred_password", "cred_email", "cred_email_password",
		"visibility", "created_at", "updated_at"}
}

func goodRow(g *domain.Good) *pgxmock.Rows {
	return pgxmock.NewRows(goodCols()).AddRow(
		g.ID, g.SellerID, g.GameID, g.Name, g.Description, g.Price,
		g.Credentials.SchemaVersion, g.Credentials.Login, g.Credentials.Password,
		g.Credentials.Email, g.Credentials.EmailPassword,
		g.Visibility, g.CreatedAt, g.UpdatedAt,
	)
}

func TestGoodRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	g := newTestGood(uuid.New())

	mock.ExpectExec("INSERT INTO goods").
		WithArgs(g.ID, g.SellerID, g.GameID, g.Name, g.Description, g.Price,
			g.Credentials.SchemaVersion, g.Credentials.Login, g.Credentials.Password,
			g.Credentials.Email, g.Credentials.EmailPassword,
			g.Visibility, g.CreatedAt, g.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), g)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	g := newTestGood(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM goods WHERE id .+ FOR UPDATE").
		WithArgs(g.ID).
		WillReturnRows(goodRow(g))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, g.ID, result.ID)
	assert.Equal(t, "acc_pass", result.Credentials.Password)
	assert.True(t, result.IsListed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_GetByIDForUpdate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM goods WHERE id .+ FOR UPDATE").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(goodCols()))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_MarkSold_FromListed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE goods SET visibility = 'SOLD'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	flipped, err := repo.MarkSold(context.Background(), tx, id)
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_MarkSold_AlreadySold(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	id := uuid.New()

	// Guard predicate matched no row: the good was not LISTED.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE goods SET visibility = 'SOLD'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	flipped, err := repo.MarkSold(context.Background(), tx, id)
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_MarkListed_FromSold(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE goods SET visibility = 'LISTED'").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	flipped, err := repo.MarkListed(context.Background(), tx, id)
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_ListByGame(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	gameID := uuid.New()
	g1 := newTestGood(uuid.New())
	g2 := newTestGood(uuid.New())

	rows := goodRow(g1)
	rows.AddRow(
		g2.ID, g2.SellerID, g2.GameID, g2.Name, g2.Description, g2.Price,
		g2.Credentials.SchemaVersion, g2.Credentials.Login, g2.Credentials.Password,
		g2.Credentials.Email, g2.Credentials.EmailPassword,
		g2.Visibility, g2.CreatedAt, g2.UpdatedAt,
	)

	mock.ExpectQuery("SELECT .+ FROM goods WHERE game_id .+ 'LISTED'").
		WithArgs(gameID).
		WillReturnRows(rows)

	goods, err := repo.ListByGame(context.Background(), gameID)
	require.NoError(t, err)
	assert.Len(t, goods, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoodRepo_HideAllBySeller(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewGoodRepo(mock)
	sellerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE goods SET visibility = 'SOLD'").
		WithArgs(sellerID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.HideAllBySeller(context.Background(), tx, sellerID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
