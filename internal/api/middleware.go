package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/auth"
	"github.com/realakshayk/good-eats/internal/ratelimit"
	"github.com/realakshayk/good-eats/internal/response"
)

const (
	apiKeyHeader  = "X-API-Key"
	traceIDHeader = "X-Request-ID"

	apiKeyCtx = "api_key"
	planCtx   = "plan"
)

// Tracing attaches a trace id to the request, echoing the caller's if
// one is supplied.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(traceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// APIKeyAuth resolves the caller's plan from the API key header and
// rejects unknown keys.
func APIKeyAuth(keyring *auth.Keyring) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		plan, ok := keyring.Plan(key)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Failure(&response.ErrorInfo{
				Type:    "authentication_error",
				Message: "missing or unknown API key",
			}, TraceID(c)))
			return
		}
		c.Set(apiKeyCtx, key)
		c.Set(planCtx, plan)
		c.Next()
	}
}

// RateLimit admits the request against the caller's plan quota and
// surfaces the remaining allowance in headers.
func RateLimit(limiter *ratelimit.Limiter, logger internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString(apiKeyCtx)
		plan := c.GetString(planCtx)
		decision, err := limiter.Admit(c.Request.Context(), key, plan)
		if err != nil {
			HandleError(c, logger, err)
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetSeconds))
		if !decision.Allowed {
			HandleError(c, logger, &internal.RateLimitError{
				Message:    "rate limit exceeded for plan " + plan,
				RetryAfter: decision.RetryAfter,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
