package api

import (
	"github.com/gin-gonic/gin"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/auth"
	"github.com/realakshayk/good-eats/internal/ratelimit"
)

// NewRouter assembles the gin engine: tracing everywhere, key auth and
// rate limiting on the versioned API group only.
func NewRouter(h *Handler, keyring *auth.Keyring, limiter *ratelimit.Limiter, logger internal.Logger, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Tracing())

	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	v1 := r.Group("/api/v1")
	v1.Use(APIKeyAuth(keyring))
	v1.Use(RateLimit(limiter, logger))
	{
		v1.POST("/meals/find", h.FindMeals)
		v1.GET("/goals", h.Goals)
		v1.GET("/goals/resolve", h.ResolveGoal)
	}
	return r
}
