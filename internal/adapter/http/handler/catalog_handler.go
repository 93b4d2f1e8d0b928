package handler

import (
	"credential-market/internal/adapter/http/dto"
	"credential-market/internal/adapter/http/middleware"
	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"
	"credential-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler handles goods and games endpoints.
type CatalogHandler struct {
	catalogSvc ports.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// CreateGood handles POST /api/v1/goods.
func (h *CatalogHandler) CreateGood(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid game id"))
		return
	}

	good, err := h.catalogSvc.CreateGood(c.Request.Context(), ports.CreateGoodRequest{
		SellerID:    sellerID.(uuid.UUID),
		GameID:      gameID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Credentials: domain.Credentials{
			Login:         req.Credentials.Login,
			Password:      req.Credentials.Password,
			Email:         req.Credentials.Email,
			EmailPassword: req.Credentials.EmailPassword,
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, good)
}

// GetOffer handles GET /api/v1/goods/:id.
func (h *CatalogHandler) GetOffer(c *gin.Context) {
	goodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	offer, err := h.catalogSvc.GetOffer(c.Request.Context(), goodID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, offer)
}

// ListByGame handles GET /api/v1/games/:id/goods.
func (h *CatalogHandler) ListByGame(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid game id"))
		return
	}

	goods, err := h.catalogSvc.ListByGame(c.Request.Context(), gameID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, goods)
}

// ListMine handles GET /api/v1/goods/mine.
func (h *CatalogHandler) ListMine(c *gin.Context) {
	sellerID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goods, err := h.catalogSvc.ListBySeller(c.Request.Context(), sellerID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, goods)
}

// Hide handles POST /api/v1/goods/:id/hide.
func (h *CatalogHandler) Hide(c *gin.Context) {
	actorID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	if err := h.catalogSvc.Hide(c.Request.Context(), goodID, actorID.(uuid.UUID)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"hidden": true})
}

// Publish handles POST /api/v1/goods/:id/publish.
func (h *CatalogHandler) Publish(c *gin.Context) {
	actorID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	if err := h.catalogSvc.Publish(c.Request.Context(), goodID, actorID.(uuid.UUID)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"published": true})
}

// RevealCredentials handles GET /api/v1/goods/:id/credentials.
func (h *CatalogHandler) RevealCredentials(c *gin.Context) {
	requesterID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	goodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid good id"))
		return
	}

	creds, err := h.catalogSvc.RevealCredentials(c.Request.Context(), goodID, requesterID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CredentialsPayload{
		Login:         creds.Login,
		Password:      creds.Password,
		Email:         creds.Email,
		EmailPassword: creds.EmailPassword,
	})
}

// CreateGame handles POST /api/v1/games (support only).
func (h *CatalogHandler) CreateGame(c *gin.Context) {
	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	game, err := h.catalogSvc.CreateGame(c.Request.Context(), req.Name, req.Image)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, game)
}

// ListGames handles GET /api/v1/games. An optional ?q= prefix query
// switches to search.
func (h *CatalogHandler) ListGames(c *gin.Context) {
	ctx := c.Request.Context()

	if q := c.Query("q"); q != "" {
		games, err := h.catalogSvc.SearchGames(ctx, q)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, games)
		return
	}

	games, err := h.catalogSvc.ListGames(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	count, err := h.catalogSvc.CountGames(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"items": games, "total": count})
}
