package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/response"
)

const traceIDKey = "trace_id"

// TraceID returns the request's trace id, set by the tracing middleware.
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// HandleSuccess writes the uniform success envelope.
func HandleSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, response.Success(data, TraceID(c)))
}

// HandleError maps a pipeline error onto an HTTP status and the uniform
// failure envelope. Unknown errors become opaque 500s; the detail stays
// in the log, keyed by trace id.
func HandleError(c *gin.Context, logger internal.Logger, err error) {
	traceID := TraceID(c)

	var (
		validationErr *internal.ValidationError
		goalErr       *internal.GoalMatchError
		rateErr       *internal.RateLimitError
		discoveryErr  *internal.MealDiscoveryError
		parsingErr    *internal.ParsingError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Failure(&response.ErrorInfo{
			Type:    "validation_error",
			Message: validationErr.Message,
			Details: validationErr.Details,
		}, traceID))
	case errors.As(err, &goalErr):
		c.JSON(http.StatusBadRequest, response.Failure(&response.ErrorInfo{
			Type:        "goal_match_error",
			Message:     goalErr.Message,
			Suggestions: goalErr.Suggestions,
		}, traceID))
	case errors.As(err, &rateErr):
		c.Header("Retry-After", fmt.Sprintf("%d", rateErr.RetryAfter))
		c.JSON(http.StatusTooManyRequests, response.Failure(&response.ErrorInfo{
			Type:    "rate_limit_error",
			Message: rateErr.Message,
		}, traceID))
	case errors.As(err, &discoveryErr):
		c.JSON(http.StatusNotFound, response.Failure(&response.ErrorInfo{
			Type:    "meal_discovery_error",
			Message: discoveryErr.Message,
			Details: discoveryErr.Details,
		}, traceID))
	case errors.As(err, &parsingErr):
		c.JSON(http.StatusUnprocessableEntity, response.Failure(&response.ErrorInfo{
			Type:    "parsing_error",
			Message: parsingErr.Message,
		}, traceID))
	default:
		logger.Errorf("request %s failed: %v", traceID, err)
		c.JSON(http.StatusInternalServerError, response.Failure(&response.ErrorInfo{
			Type:    "internal_error",
			Message: "an internal error occurred",
		}, traceID))
	}
}
