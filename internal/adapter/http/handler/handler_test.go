package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credential-market/internal/adapter/http/dto"
	"credential-market/internal/adapter/http/middleware"
	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/internal/core/ports/mocks"
	"credential-market/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Login:    "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}).Return("jwt-token-123", nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Login:    "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_UserExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return("", apperror.ErrUserExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Login:    "taken",
		Email:    "taken@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "test@example.com", "password123").Return("jwt-token-123", nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad@example.com", "badpassword").Return("", apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Email:    "bad@example.com",
		Password: "badpassword",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Purchase Handler Tests ---

func TestPurchase_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	buyerID := uuid.New()
	sellerID := uuid.New()
	goodID := uuid.New()
	purchaseID := uuid.New()
	now := time.Now().UTC()

	mockPurchase.EXPECT().Purchase(gomock.Any(), ports.PurchaseRequest{
		GoodID:  goodID,
		BuyerID: buyerID,
	}).Return(&ports.PurchaseReceipt{
		Purchase: &domain.Purchase{
			ID:        purchaseID,
			BuyerID:   buyerID,
			SellerID:  sellerID,
			GoodID:    goodID,
			Price:     2500,
			CreatedAt: now,
		},
		Credentials: domain.Credentials{
			SchemaVersion: domain.CredentialSchemaVersion,
			Login:         "acc_login",
			Password:      "acc_pass",
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: goodID.String()}}
	c.Set(middleware.CtxUserID, buyerID)

	h.Purchase(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, purchaseID.String(), data["purchase_id"])
	assert.Equal(t, goodID.String(), data["good_id"])
	assert.Equal(t, float64(2500), data["price"])
	creds := data["credentials"].(map[string]interface{})
	assert.Equal(t, "acc_login", creds["login"])
	assert.Equal(t, "acc_pass", creds["password"])
}

func TestPurchase_MissingUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.Purchase(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPurchase_InvalidGoodID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	c.Set(middleware.CtxUserID, uuid.New())

	h.Purchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchase_GoodUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrGoodUnavailable())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxUserID, uuid.New())

	h.Purchase(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPurchase := mocks.NewMockPurchaseService(ctrl)
	h := NewPurchaseHandler(mockPurchase)

	mockPurchase.EXPECT().Purchase(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Set(middleware.CtxUserID, uuid.New())

	h.Purchase(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

// --- Account Handler Tests ---

func TestTopup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	userID := uuid.New()
	mockAccount.EXPECT().Topup(gomock.Any(), userID, int64(50000)).Return(int64(62500), nil)

	body, _ := json.Marshal(dto.TopupRequest{Amount: 50000})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, userID)

	h.Topup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(62500), data["balance"])
}

func TestTopup_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	body, _ := json.Marshal(map[string]interface{}{"amount": -5})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.Topup(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	userID := uuid.New()
	mockReporting.EXPECT().GetBalance(gomock.Any(), userID).Return(int64(100000), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(100000), data["balance"])
}

func TestListPurchases_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	userID := uuid.New()
	mockReporting.EXPECT().ListPurchases(gomock.Any(), userID).Return([]domain.PurchaseRecord{
		{
			Purchase: domain.Purchase{
				ID:        uuid.New(),
				BuyerID:   userID,
				SellerID:  uuid.New(),
				GoodID:    uuid.New(),
				Price:     2500,
				CreatedAt: time.Now(),
			},
			GoodName: "Steam account",
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxUserID, userID)

	h.ListPurchases(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Steam account", items[0].(map[string]interface{})["good_name"])
}

func TestBlock_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	userID := uuid.New()
	mockAccount.EXPECT().Block(gomock.Any(), userID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}

	h.Block(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccount := mocks.NewMockAccountService(ctrl)
	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewAccountHandler(mockAccount, mockReporting)

	userID := uuid.New()
	mockAccount.EXPECT().GetUser(gomock.Any(), userID).Return(nil, apperror.ErrNotFound("user"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}

	h.GetUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Catalog Handler Tests ---

func TestCreateGood_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	sellerID := uuid.New()
	gameID := uuid.New()
	goodID := uuid.New()

	mockCatalog.EXPECT().CreateGood(gomock.Any(), gomock.Any()).Return(&domain.Good{
		ID:         goodID,
		SellerID:   sellerID,
		GameID:     gameID,
		Name:       "Steam account, 120 games",
		Price:      2500,
		Visibility: domain.VisibilityListed,
	}, nil)

	body, _ := json.Marshal(dto.CreateGoodRequest{
		GameID: gameID.String(),
		Name:   "Steam account, 120 games",
		Price:  2500,
		Credentials: dto.CredentialsPayload{
			Login:    "acc_login",
			Password: "acc_pass",
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, sellerID)

	h.CreateGood(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, goodID.String(), data["id"])
	assert.Equal(t, "LISTED", data["visibility"])
	// Credentials must never leak through the listing response.
	_, leaked := data["credentials"]
	assert.False(t, leaked)
}

func TestCreateGood_MissingCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	body, _ := json.Marshal(map[string]interface{}{
		"game_id": uuid.New().String(),
		"name":    "Steam account",
		"price":   2500,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.CreateGood(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOffer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	goodID := uuid.New()
	mockCatalog.EXPECT().GetOffer(gomock.Any(), goodID).Return(&domain.Offer{
		Good: domain.Good{
			ID:         goodID,
			Name:       "Steam account",
			Price:      2500,
			Visibility: domain.VisibilityListed,
		},
		SellerLogin: "seller42",
		SellerRate:  4.8,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: goodID.String()}}

	h.GetOffer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "seller42", data["seller_login"])
	assert.Equal(t, 4.8, data["seller_rate"])
}

func TestHide_Forbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	goodID := uuid.New()
	actorID := uuid.New()
	mockCatalog.EXPECT().Hide(gomock.Any(), goodID, actorID).Return(apperror.ErrForbidden())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: goodID.String()}}
	c.Set(middleware.CtxUserID, actorID)

	h.Hide(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRevealCredentials_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	goodID := uuid.New()
	buyerID := uuid.New()
	mockCatalog.EXPECT().RevealCredentials(gomock.Any(), goodID, buyerID).Return(&domain.Credentials{
		SchemaVersion: domain.CredentialSchemaVersion,
		Login:         "acc_login",
		Password:      "acc_pass",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: goodID.String()}}
	c.Set(middleware.CtxUserID, buyerID)

	h.RevealCredentials(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "acc_login", data["login"])
}

func TestListGames_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	mockCatalog.EXPECT().ListGames(gomock.Any()).Return([]domain.Game{
		{ID: uuid.New(), Name: "CS2"},
		{ID: uuid.New(), Name: "Dota 2"},
	}, nil)
	mockCatalog.EXPECT().CountGames(gomock.Any()).Return(int64(2), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.ListGames(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Len(t, data["items"], 2)
	assert.Equal(t, float64(2), data["total"])
}

func TestListGames_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCatalog := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCatalog)

	mockCatalog.EXPECT().SearchGames(gomock.Any(), "cs").Return([]domain.Game{
		{ID: uuid.New(), Name: "CS2"},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?q=cs", nil)

	h.ListGames(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

// --- Review Handler Tests ---

func TestSubmitReview_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReview := mocks.NewMockReviewService(ctrl)
	h := NewReviewHandler(mockReview)

	buyerID := uuid.New()
	goodID := uuid.New()
	sellerID := uuid.New()

	mockReview.EXPECT().Submit(gomock.Any(), ports.SubmitReviewRequest{
		BuyerID: buyerID,
		GoodID:  goodID,
		Rate:    5,
	}).Return(&domain.Review{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		SellerID: sellerID,
		GoodID:   goodID,
		Rate:     5,
	}, nil)

	body, _ := json.Marshal(dto.SubmitReviewRequest{
		GoodID: goodID.String(),
		Rate:   5,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, buyerID)

	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitReview_NotBuyer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReview := mocks.NewMockReviewService(ctrl)
	h := NewReviewHandler(mockReview)

	mockReview.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrForbidden())

	body, _ := json.Marshal(dto.SubmitReviewRequest{
		GoodID: uuid.New().String(),
		Rate:   4,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHasReview(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReview := mocks.NewMockReviewService(ctrl)
	h := NewReviewHandler(mockReview)

	buyerID := uuid.New()
	goodID := uuid.New()
	mockReview.EXPECT().HasReview(gomock.Any(), buyerID, goodID).Return(true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: goodID.String()}}
	c.Set(middleware.CtxUserID, buyerID)

	h.HasReview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["reviewed"])
}

// --- Health Check Tests ---

type staticChecker struct {
	name string
	err  error
}

func (s staticChecker) Name() string                 { return s.name }
func (s staticChecker) Ping(_ context.Context) error { return s.err }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(staticChecker{name: "postgres"}, staticChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(
		staticChecker{name: "postgres"},
		staticChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
}
