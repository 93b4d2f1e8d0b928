package handler

import (
	"credential-market/internal/adapter/http/middleware"
	redisStore "credential-market/internal/adapter/storage/redis"
	"credential-market/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PurchaseSvc    ports.PurchaseService
	CatalogSvc     ports.CatalogService
	AccountSvc     ports.AccountService
	ReportingSvc   ports.ReportingService
	ReviewSvc      ports.ReviewService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	catalogHandler := NewCatalogHandler(deps.CatalogSvc)
	accountHandler := NewAccountHandler(deps.AccountSvc, deps.ReportingSvc)
	reviewHandler := NewReviewHandler(deps.ReviewSvc)

	// Public catalog browsing
	games := v1.Group("/games")
	{
		games.GET("", rl("catalog"), catalogHandler.ListGames)
		games.GET("/:id/goods", rl("catalog"), catalogHandler.ListByGame)
	}
	v1.GET("/goods/:id", rl("catalog"), catalogHandler.GetOffer)
	v1.GET("/users/:id", rl("account"), accountHandler.GetUser)
	v1.GET("/users/:id/reviews", rl("reviews"), reviewHandler.ListBySeller)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc)

	v1.POST("/auth/refresh", jwtAuth, authHandler.Refresh)

	goods := v1.Group("/goods", jwtAuth)
	{
		goods.POST("", rl("catalog"), catalogHandler.CreateGood)
		goods.GET("/mine", rl("catalog"), catalogHandler.ListMine)
		goods.POST("/:id/hide", rl("catalog"), catalogHandler.Hide)
		goods.POST("/:id/publish", rl("catalog"), catalogHandler.Publish)
		goods.GET("/:id/credentials", rl("catalog"), catalogHandler.RevealCredentials)
		goods.POST("/:id/purchase", rl("purchase"), purchaseHandler.Purchase)
		goods.GET("/:id/review", rl("reviews"), reviewHandler.HasReview)
	}

	me := v1.Group("/users/me", jwtAuth)
	{
		me.GET("", rl("account"), accountHandler.Me)
		me.PUT("", rl("account"), accountHandler.UpdateProfile)
		me.GET("/balance", rl("account"), accountHandler.GetBalance)
		me.POST("/topup", rl("topup"), accountHandler.Topup)
		me.GET("/purchases", rl("account"), accountHandler.ListPurchases)
		me.GET("/sales", rl("account"), accountHandler.ListSales)
	}

	reviews := v1.Group("/reviews", jwtAuth)
	{
		reviews.POST("", rl("reviews"), reviewHandler.Submit)
	}

	// --- Support-only routes ---
	support := v1.Group("", jwtAuth, middleware.RequireSupport())
	{
		support.POST("/games", rl("catalog"), catalogHandler.CreateGame)
		support.POST("/users/:id/block", rl("account"), accountHandler.Block)
		support.POST("/users/:id/unblock", rl("account"), accountHandler.Unblock)
		support.POST("/users/:id/support", rl("account"), accountHandler.GrantSupport)
		support.DELETE("/users/:id/support", rl("account"), accountHandler.RevokeSupport)
	}

	return r
}
