package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/metrics"
)

const menuSystemPrompt = `You are a menu parsing assistant. Output ONLY valid JSON in the following format:
{
  "meals": [
    {
      "name": "...",
      "description": "...",
      "price": "$...",
      "tags": ["..."],
      "relevance_score": 0.0,
      "nutrition_estimate": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
    }
  ]
}`

var menuFewShots = []Shot{
	{
		User:      "Grilled Chicken Bowl - Grilled chicken with quinoa and vegetables $12.99",
		Assistant: `{"meals": [{"name": "Grilled Chicken Bowl", "description": "Grilled chicken with quinoa and vegetables", "price": "$12.99", "tags": ["high protein", "gluten free"], "relevance_score": 0.85, "nutrition_estimate": {"calories": 450, "protein": 35, "carbs": 25, "fat": 15}}]}`,
	},
}

// ParsedNutrition is the nutrition block a parser may attach to a meal.
// Zero calories means "not estimated yet".
type ParsedNutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type ParsedMeal struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          string           `json:"price,omitempty"`
	Tags           []string         `json:"tags"`
	RelevanceScore float64          `json:"relevance_score"`
	Nutrition      *ParsedNutrition `json:"nutrition_estimate,omitempty"`
}

// ParsedMenu is the result of one extraction pass over raw menu text.
type ParsedMenu struct {
	Meals      []ParsedMeal            `json:"meals"`
	Source     string                  `json:"source"`
	Confidence internal.ConfidenceTier `json:"confidence"`
}

// MenuParser turns raw menu text into structured meals via the language
// model, with the deterministic keyword extractor as the last resort.
type MenuParser struct {
	chat     ChatClient // nil disables the LLM path entirely
	fallback *FallbackParser
	logger   internal.Logger
	metrics  *metrics.Registry
	timeout  time.Duration
	backoff  func() retry.Backoff
}

func NewMenuParser(chat ChatClient, logger internal.Logger, m *metrics.Registry, timeout time.Duration) *MenuParser {
	return &MenuParser{
		chat:     chat,
		fallback: NewFallbackParser(),
		logger:   logger,
		metrics:  m,
		timeout:  timeout,
		backoff:  func() retry.Backoff { return retry.WithMaxRetries(3, retry.NewExponential(time.Second)) },
	}
}

// Parse attempts the language-model call with capped exponential backoff.
// Malformed output counts as a failure; one repair pass is tried before
// each attempt is abandoned. Exhaustion falls back to the keyword
// extractor, which always reports low confidence.
func (p *MenuParser) Parse(ctx context.Context, rawText string) ParsedMenu {
	if p.chat == nil {
		return p.fallback.Parse(rawText)
	}

	var parsed ParsedMenu
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		content, err := p.chat.Complete(callCtx, menuSystemPrompt, menuFewShots, rawText)
		if err != nil {
			p.metrics.Inc("llm.parse.retry")
			p.logger.Warnf("extract: llm call failed: %v", err)
			return retry.RetryableError(err)
		}
		meals, err := decodeMeals(content)
		if err != nil {
			p.metrics.Inc("llm.parse.retry")
			p.logger.Warnf("extract: malformed llm output: %v", err)
			return retry.RetryableError(err)
		}
		parsed = ParsedMenu{Meals: meals, Source: "gpt", Confidence: internal.ConfidenceHigh}
		return nil
	})
	if err != nil {
		p.metrics.Inc("llm.parse.exhausted")
		p.logger.Warnf("extract: llm retries exhausted, using fallback parser: %v", err)
		return p.fallback.Parse(rawText)
	}
	return parsed
}

// decodeMeals tries a strict decode, then a single repair pass that
// strips markdown fences and normalizes single quotes.
func decodeMeals(content string) ([]ParsedMeal, error) {
	var envelope struct {
		Meals []ParsedMeal `json:"meals"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err == nil && envelope.Meals != nil {
		return cleanMeals(envelope.Meals), nil
	}
	repaired := repairJSON(content)
	if err := json.Unmarshal([]byte(repaired), &envelope); err != nil || envelope.Meals == nil {
		return nil, &internal.ParsingError{Message: "could not decode meals JSON", Details: truncate(content, 120)}
	}
	return cleanMeals(envelope.Meals), nil
}

func repairJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.ReplaceAll(strings.TrimSpace(s), "'", `"`)
}

func cleanMeals(meals []ParsedMeal) []ParsedMeal {
	out := make([]ParsedMeal, 0, len(meals))
	for _, m := range meals {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		m.Description = strings.TrimSpace(m.Description)
		if m.RelevanceScore < 0 {
			m.RelevanceScore = 0
		}
		if m.RelevanceScore > 1 {
			m.RelevanceScore = 1
		}
		tags := make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				tags = append(tags, t)
			}
		}
		m.Tags = tags
		out = append(out, m)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
