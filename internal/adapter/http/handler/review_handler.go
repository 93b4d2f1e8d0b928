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

// ReviewHandler handles seller review endpoints.
type ReviewHandler struct {
	reviewSvc ports.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewSvc ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// Submit handles POST /api/v1/reviews.
func (h *ReviewHandler) Submit(c *gin.Context) {
	buyerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	goodID, err := uuid.Parse(req.GoodID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	review, err := h.reviewSvc.Submit(c.Request.Context(), ports.SubmitReviewRequest{
		BuyerID: buyerID.(uuid.UUID),
		GoodID:  goodID,
		Rate:    req.Rate,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, review)
}

// HasReview handles GET /api/v1/goods/:id/review — whether the caller
// already reviewed this good.
func (h *ReviewHandler) HasReview(c *gin.Context) {
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

	exists, err := h.reviewSvc.HasReview(c.Request.Context(), buyerID.(uuid.UUID), goodID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"reviewed": exists})
}

// ListBySeller handles GET /api/v1/users/:id/reviews.
func (h *ReviewHandler) ListBySeller(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	reviews, err := h.reviewSvc.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, reviews)
}
