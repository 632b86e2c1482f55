package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/extract"
	"github.com/realakshayk/good-eats/internal/metrics"
)

const estimatorSystemPrompt = `You are a nutrition estimation assistant. Given a meal name and description, estimate the nutrition as JSON:
{"calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": null, "sugar": null, "sodium": null}`

var estimatorFewShots = []extract.Shot{
	{
		User:      "Grilled Chicken Bowl: Grilled chicken with quinoa and vegetables",
		Assistant: `{"calories": 450, "protein": 35, "carbs": 25, "fat": 15, "fiber": 5, "sugar": 3, "sodium": 400}`,
	},
}

// Estimator produces macro estimates for a meal. The chain is: language
// model, then the local template table, then a fixed manual default.
type Estimator struct {
	chat    extract.ChatClient // nil disables the LLM path
	logger  internal.Logger
	metrics *metrics.Registry
	timeout time.Duration
	backoff func() retry.Backoff
}

func NewEstimator(chat extract.ChatClient, logger internal.Logger, m *metrics.Registry, timeout time.Duration) *Estimator {
	return &Estimator{
		chat:    chat,
		logger:  logger,
		metrics: m,
		timeout: timeout,
		backoff: func() retry.Backoff { return retry.WithMaxRetries(3, retry.NewExponential(time.Second)) },
	}
}

type llmEstimate struct {
	Calories *int     `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
	Sodium   *float64 `json:"sodium"`
}

// Estimate never fails: every tier exhaustion steps down to the next one.
func (e *Estimator) Estimate(ctx context.Context, name, description string) internal.NutritionEstimate {
	if e.chat != nil {
		if est, ok := e.llmEstimate(ctx, name, description); ok {
			return est
		}
	}
	return e.ruleEstimate(name, description)
}

func (e *Estimator) llmEstimate(ctx context.Context, name, description string) (internal.NutritionEstimate, bool) {
	var out internal.NutritionEstimate
	err := retry.Do(ctx, e.backoff(), func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		content, err := e.chat.Complete(callCtx, estimatorSystemPrompt, estimatorFewShots, fmt.Sprintf("%s: %s", name, description))
		if err != nil {
			e.metrics.Inc("llm.nutrition.retry")
			return retry.RetryableError(err)
		}
		var est llmEstimate
		if err := json.Unmarshal([]byte(content), &est); err != nil {
			e.metrics.Inc("llm.nutrition.retry")
			return retry.RetryableError(&internal.ParsingError{Message: "malformed nutrition JSON", Details: err.Error()})
		}
		if est.Calories == nil || est.Protein == nil || est.Carbs == nil || est.Fat == nil {
			e.metrics.Inc("llm.nutrition.retry")
			return retry.RetryableError(&internal.ParsingError{Message: "nutrition JSON missing required macros"})
		}
		out = internal.NutritionEstimate{
			Calories:   *est.Calories,
			Protein:    *est.Protein,
			Carbs:      *est.Carbs,
			Fat:        *est.Fat,
			Fiber:      est.Fiber,
			Sugar:      est.Sugar,
			Sodium:     est.Sodium,
			Confidence: internal.ConfidenceHigh,
			Origin:     internal.OriginGPT,
		}
		return nil
	})
	if err != nil {
		e.logger.Warnf("nutrition: llm estimate exhausted for %q: %v", name, err)
		return internal.NutritionEstimate{}, false
	}
	return out, true
}

// ruleEstimate looks up the template table by substring match and uses
// the midpoint of each macro range. With no matching template it falls
// through to the manual default.
func (e *Estimator) ruleEstimate(name, description string) internal.NutritionEstimate {
	text := strings.ToLower(name + " " + description)
	for _, key := range templateOrder {
		if !strings.Contains(text, key) {
			continue
		}
		tpl := templates[key]
		return internal.NutritionEstimate{
			Calories:   int(mid(tpl.Calories)),
			Protein:    mid(tpl.Protein),
			Carbs:      mid(tpl.Carbs),
			Fat:        mid(tpl.Fat),
			Confidence: internal.ConfidenceMedium,
			Origin:     internal.OriginRule,
		}
	}
	return internal.NutritionEstimate{
		Calories:   400,
		Protein:    20,
		Carbs:      40,
		Fat:        10,
		Confidence: internal.ConfidenceLow,
		Origin:     internal.OriginManual,
	}
}
