package middleware

import (
	"net/http"
	"time"

	"credential-market/internal/core/domain"
	"credential-market/internal/core/ports"
	"credential-market/pkg/apperror"
	"credential-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Context keys set by JWTAuth.
const (
	CtxUserID    = "user_id"
	CtxUserLogin = "user_login"
	CtxUserRole  = "user_role"
)

// JWTAuth creates a middleware that validates JWT bearer tokens.
// Blocked accounts carry a valid token until it expires, so the role
// claim is rejected here as well.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		if claims.Role == domain.RoleBlocked {
			response.Error(c, apperror.ErrAccountBlocked())
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserLogin, claims.Login)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireSupport allows only accounts with the SUPPORT role through.
func RequireSupport() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(CtxUserRole)
		if !ok || role.(domain.UserRole) != domain.RoleSupport {
			response.Error(c, apperror.ErrForbidden())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
