package handler

import (
	"credential-market/internal/adapter/http/dto"
	"credential-market/internal/adapter/http/middleware"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"
	"credential-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles account and history endpoints.
type AccountHandler struct {
	accountSvc   ports.AccountService
	reportingSvc ports.ReportingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService, reportingSvc ports.ReportingService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc, reportingSvc: reportingSvc}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

// Me handles GET /api/v1/users/me.
func (h *AccountHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.accountSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// GetUser handles GET /api/v1/users/:id — the public seller profile.
func (h *AccountHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	user, err := h.accountSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// Topup handles POST /api/v1/users/me/topup.
func (h *AccountHandler) Topup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	balance, err := h.accountSvc.Topup(c.Request.Context(), userID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Balance: balance})
}

// GetBalance handles GET /api/v1/users/me/balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.reportingSvc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Balance: balance})
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.accountSvc.UpdateProfile(c.Request.Context(), userID, req.Description, req.Avatar)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user)
}

// ListPurchases handles GET /api/v1/users/me/purchases.
func (h *AccountHandler) ListPurchases(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	records, err := h.reportingSvc.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, records)
}

// ListSales handles GET /api/v1/users/me/sales.
func (h *AccountHandler) ListSales(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	records, err := h.reportingSvc.ListSales(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, records)
}

// Block handles POST /api/v1/users/:id/block (support only).
func (h *AccountHandler) Block(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.accountSvc.Block(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"blocked": true})
}

// Unblock handles POST /api/v1/users/:id/unblock (support only).
func (h *AccountHandler) Unblock(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.accountSvc.Unblock(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"blocked": false})
}

// GrantSupport handles POST /api/v1/users/:id/support (support only).
func (h *AccountHandler) GrantSupport(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.accountSvc.GrantSupport(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"support": true})
}

// RevokeSupport handles DELETE /api/v1/users/:id/support (support only).
func (h *AccountHandler) RevokeSupport(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.accountSvc.RevokeSupport(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"support": false})
}
