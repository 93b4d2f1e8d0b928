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

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, err := h.authSvc.Register(c.Request.Context(), ports.RegisterRequest{
		Login:    req.Login,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.TokenResponse{Token: token})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{Token: token})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	token, err := h.authSvc.Refresh(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TokenResponse{Token: token})
}
