package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/cache"
	"github.com/realakshayk/good-eats/internal/extract"
)

// MealSource is one tier of the per-venue fallback chain. A source that
// returns no meals, or an error, hands off to the next tier.
type MealSource interface {
	Name() string
	MealsForVenue(ctx context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error)
}

// APISource pulls structured meals from a partner meal API.
type APISource struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
	logger  internal.Logger
}

var _ MealSource = (*APISource)(nil)

func NewAPISource(name, baseURL, apiKey string, logger internal.Logger) *APISource {
	return &APISource{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (s *APISource) Name() string { return s.name }

type apiMeal struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          string    `json:"price"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevance_score"`
	Nutrition      *struct {
		Calories int     `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	} `json:"nutrition"`
}

func (s *APISource) MealsForVenue(ctx context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error) {
	endpoint := fmt.Sprintf("%s/venues/%s/meals?goal=%s", s.baseURL, venue.ID, goalName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", s.name, resp.StatusCode)
	}

	var body struct {
		Meals []apiMeal `json:"meals"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decode meals: %w", s.name, err)
	}
	if len(body.Meals) == 0 {
		return nil, fmt.Errorf("%s: no meals for venue %s", s.name, venue.ID)
	}

	out := make([]internal.MealCandidate, 0, len(body.Meals))
	for _, m := range body.Meals {
		candidate := internal.MealCandidate{
			Name:           m.Name,
			Description:    m.Description,
			Price:          m.Price,
			Tags:           m.Tags,
			RelevanceScore: m.RelevanceScore,
			Confidence:     internal.ConfidenceHigh,
			Origin:         internal.OriginAPI,
			Venue:          summarize(venue),
		}
		if m.Nutrition != nil {
			candidate.Nutrition = internal.NutritionEstimate{
				Calories:   m.Nutrition.Calories,
				Protein:    m.Nutrition.Protein,
				Carbs:      m.Nutrition.Carbs,
				Fat:        m.Nutrition.Fat,
				Confidence: internal.ConfidenceHigh,
				Origin:     internal.OriginAPI,
			}
		}
		out = append(out, candidate)
	}
	return out, nil
}

// MenuSource fetches a venue's website, strips it down to text, and runs
// the extraction engine on the result. The raw text is cached per venue
// with its own TTL so re-parses do not re-fetch the site.
type MenuSource struct {
	parser  *extract.MenuParser
	store   *cache.Store
	textTTL time.Duration
	client  *http.Client
	logger  internal.Logger
}

var _ MealSource = (*MenuSource)(nil)

func NewMenuSource(parser *extract.MenuParser, store *cache.Store, textTTL time.Duration, logger internal.Logger) *MenuSource {
	return &MenuSource{
		parser:  parser,
		store:   store,
		textTTL: textTTL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (s *MenuSource) Name() string { return "menu_extraction" }

var htmlTagRe = regexp.MustCompile(`(?s)<script.*?</script>|<style.*?</style>|<[^>]+>`)

func (s *MenuSource) MealsForVenue(ctx context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error) {
	if venue.Website == "" {
		return nil, fmt.Errorf("menu_extraction: venue %s has no website", venue.ID)
	}
	text, err := s.menuText(ctx, venue)
	if err != nil {
		return nil, err
	}

	parsed := s.parser.Parse(ctx, text)
	if len(parsed.Meals) == 0 {
		return nil, fmt.Errorf("menu_extraction: no meals extracted for venue %s", venue.ID)
	}

	origin := internal.OriginGPT
	if parsed.Source == "fallback" {
		origin = internal.OriginRule
	}
	out := make([]internal.MealCandidate, 0, len(parsed.Meals))
	for _, m := range parsed.Meals {
		candidate := internal.MealCandidate{
			Name:           m.Name,
			Description:    m.Description,
			Price:          m.Price,
			Tags:           m.Tags,
			RelevanceScore: m.RelevanceScore,
			Confidence:     parsed.Confidence,
			Origin:         origin,
			Venue:          summarize(venue),
		}
		if m.Nutrition != nil && m.Nutrition.Calories > 0 {
			candidate.Nutrition = internal.NutritionEstimate{
				Calories:   m.Nutrition.Calories,
				Protein:    m.Nutrition.Protein,
				Carbs:      m.Nutrition.Carbs,
				Fat:        m.Nutrition.Fat,
				Confidence: parsed.Confidence,
				Origin:     origin,
			}
		}
		out = append(out, candidate)
	}
	return out, nil
}

func (s *MenuSource) menuText(ctx context.Context, venue internal.Venue) (string, error) {
	raw, err := s.store.GetOrSet(ctx, cache.Key("menu_text", venue.ID), s.textTTL, func(ctx context.Context) ([]byte, error) {
		return s.fetchText(ctx, venue)
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *MenuSource) fetchText(ctx context.Context, venue internal.Venue) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, venue.Website, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu_extraction: fetch %s: status %d", venue.Website, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(htmlTagRe.ReplaceAllString(string(raw), "\n"))
	if text == "" {
		return nil, fmt.Errorf("menu_extraction: no text content at %s", venue.Website)
	}
	return []byte(text), nil
}

// StaticSource serves a bundled dataset keyed by goal, for when every
// live tier is down.
type StaticSource struct {
	byGoal map[string][]internal.MealCandidate
}

var _ MealSource = (*StaticSource)(nil)

func NewStaticSource(path string) (*StaticSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("static source: read %s: %w", path, err)
	}
	var byGoal map[string][]internal.MealCandidate
	if err := json.Unmarshal(raw, &byGoal); err != nil {
		return nil, fmt.Errorf("static source: decode %s: %w", path, err)
	}
	return &StaticSource{byGoal: byGoal}, nil
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) MealsForVenue(_ context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error) {
	meals, ok := s.byGoal[goalName]
	if !ok {
		meals = s.byGoal["balanced"]
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("static: no bundled meals for goal %s", goalName)
	}
	out := make([]internal.MealCandidate, len(meals))
	for i, m := range meals {
		m.Venue = summarize(venue)
		if m.Origin == "" {
			m.Origin = internal.OriginManual
		}
		if m.Confidence == "" {
			m.Confidence = internal.ConfidenceLow
		}
		out[i] = m
	}
	return out, nil
}

// SyntheticSource never fails; it is the terminal tier.
type SyntheticSource struct{}

var _ MealSource = (*SyntheticSource)(nil)

func (SyntheticSource) Name() string { return "synthetic" }

func (SyntheticSource) MealsForVenue(_ context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error) {
	return []internal.MealCandidate{{
		Name:           "House Special",
		Description:    "A balanced house plate assembled when live menu data is unavailable",
		Tags:           []string{"balanced"},
		RelevanceScore: 0.1,
		Nutrition: internal.NutritionEstimate{
			Calories:   400,
			Protein:    20,
			Carbs:      40,
			Fat:        10,
			Confidence: internal.ConfidenceLow,
			Origin:     internal.OriginManual,
		},
		Confidence: internal.ConfidenceLow,
		Origin:     internal.OriginManual,
		Venue:      summarize(venue),
	}}, nil
}

func summarize(v internal.Venue) internal.VenueSummary {
	return internal.VenueSummary{Name: v.Name, Address: v.Address, Rating: v.Rating}
}
