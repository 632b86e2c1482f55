package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/goal"
	"github.com/realakshayk/good-eats/internal/metrics"
	"github.com/realakshayk/good-eats/internal/source"
)

// Discoverer runs the meal-discovery pipeline.
type Discoverer interface {
	Discover(ctx context.Context, params source.DiscoverParams) (source.DiscoverResult, error)
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	resolver     *goal.Resolver
	orchestrator Discoverer
	metrics      *metrics.Registry
	logger       internal.Logger
}

func NewHandler(resolver *goal.Resolver, orchestrator Discoverer, m *metrics.Registry, logger internal.Logger) *Handler {
	return &Handler{resolver: resolver, orchestrator: orchestrator, metrics: m, logger: logger}
}

// FindMeals is the main discovery endpoint.
func (h *Handler) FindMeals(c *gin.Context) {
	var req FindMealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, h.logger, &internal.ValidationError{Message: "malformed JSON body", Details: err.Error()})
		return
	}
	if err := validateRequest(&req); err != nil {
		HandleError(c, h.logger, err)
		return
	}
	req.applyDefaults()

	match, err := h.resolver.Resolve(req.Goal)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	resolved, _ := h.resolver.Lookup(match.Goal)
	resolved = req.applyOverrides(resolved)

	h.metrics.Inc("discover.requests")
	result, err := h.orchestrator.Discover(c.Request.Context(), source.DiscoverParams{
		Goal:           resolved,
		Lat:            *req.Location.Lat,
		Lon:            *req.Location.Lon,
		RadiusMiles:    req.RadiusMiles,
		FlavorPrefs:    req.FlavorPreferences,
		ExcludeIngreds: req.ExcludeIngredients,
		Page:           req.Page,
		PageSize:       req.PageSize,
		Refresh:        req.Refresh,
	})
	if err != nil {
		h.metrics.Inc("discover.failures")
		HandleError(c, h.logger, err)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{
		"goal":      match,
		"meals":     result.Meals,
		"total":     result.Total,
		"page":      result.Page,
		"page_size": result.PageSize,
	})
}

// Goals lists the canonical goal table.
func (h *Handler) Goals(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, gin.H{"goals": h.resolver.Goals()})
}

// ResolveGoal maps free-text input onto a canonical goal without
// running discovery.
func (h *Handler) ResolveGoal(c *gin.Context) {
	q := c.Query("q")
	match, err := h.resolver.Resolve(q)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	HandleSuccess(c, http.StatusOK, match)
}

// Health is a liveness probe.
func (h *Handler) Health(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}

// Metrics exposes the in-process counters.
func (h *Handler) Metrics(c *gin.Context) {
	HandleSuccess(c, http.StatusOK, h.metrics.Snapshot())
}
