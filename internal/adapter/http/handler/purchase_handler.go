package handler

import (
	"time"

	"credential-market/internal/adapter/http/dto"
	"credential-market/internal/adapter/http/middleware"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"
	"credential-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles the purchase endpoint.
type PurchaseHandler struct {
	purchaseSvc ports.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseSvc ports.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc}
}

// Purchase handles POST /api/v1/goods/:id/purchase.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	receipt, err := h.purchaseSvc.Purchase(c.Request.Context(), ports.PurchaseRequest{
		GoodID:  goodID,
		BuyerID: buyerID.(uuid.UUID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PurchaseResponse{
		PurchaseID: receipt.Purchase.ID.String(),
		GoodID:     receipt.Purchase.GoodID.String(),
		SellerID:   receipt.Purchase.SellerID.String(),
		Price:      receipt.Purchase.Price,
		CreatedAt:  receipt.Purchase.CreatedAt.Format(time.RFC3339),
		Credentials: dto.CredentialsPayload{
			Login:         receipt.Credentials.Login,
			Password:      receipt.Credentials.Password,
			Email:         receipt.Credentials.Email,
			EmailPassword: receipt.Credentials.EmailPassword,
		},
	})
}
