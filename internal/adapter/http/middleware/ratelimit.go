package middleware

import (
	"fmt"
	"strconv"
	"time"

	redisStore "credential-market/internal/adapter/storage/redis"
	"credential-market/pkg/apperror"
	"credential-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the rate limits per endpoint group.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"purchase":      {Limit: 10, Window: time.Minute},
		"auth_login":    {Limit: 10, Window: time.Minute},
		"auth_register": {Limit: 5, Window: time.Hour},
		"catalog":       {Limit: 120, Window: time.Minute},
		"account":       {Limit: 60, Window: time.Minute},
		"topup":         {Limit: 20, Window: time.Minute},
		"reviews":       {Limit: 30, Window: time.Minute},
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// A failing Redis never blocks traffic: the check degrades to allow.
func RateLimiter(store *redisStore.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := result.ResetAt - time.Now().Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys authenticated traffic by user and the rest by IP.
func extractIdentifier(c *gin.Context) string {
	if uid, exists := c.Get(CtxUserID); exists {
		return fmt.Sprintf("%v", uid)
	}
	return c.ClientIP()
}
