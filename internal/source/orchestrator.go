package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/cache"
	"github.com/realakshayk/good-eats/internal/goal"
	"github.com/realakshayk/good-eats/internal/metrics"
	"github.com/realakshayk/good-eats/internal/nutrition"
	"github.com/realakshayk/good-eats/internal/rank"
)

const metersPerMile = 1609.34

// TTLs are the cache lifetimes for the discovery read paths, one per
// operation class.
type TTLs struct {
	VenueSearch time.Duration
	VenueMeals  time.Duration
	Nutrition   time.Duration
}

// DiscoverParams is a fully validated discovery request with the goal
// already resolved.
type DiscoverParams struct {
	Goal           goal.Goal
	Lat            float64
	Lon            float64
	RadiusMiles    float64
	FlavorPrefs    []string
	ExcludeIngreds []string
	Page           int
	PageSize       int
	Refresh        bool
}

// DiscoverResult is one page of ranked meals plus the full result count.
type DiscoverResult struct {
	Meals    []internal.MealCandidate `json:"meals"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

// Orchestrator fans discovery out over nearby venues and walks each
// venue through the source chain until a tier yields meals. Venue-level
// failures never abort the request; at worst a venue contributes the
// synthetic record.
type Orchestrator struct {
	searcher      VenueSearcher
	chain         []MealSource
	estimator     *nutrition.Estimator
	store         *cache.Store
	ttls          TTLs
	maxConcurrent int
	logger        internal.Logger
	metrics       *metrics.Registry
}

func NewOrchestrator(
	searcher VenueSearcher,
	chain []MealSource,
	estimator *nutrition.Estimator,
	store *cache.Store,
	ttls TTLs,
	maxConcurrent int,
	logger internal.Logger,
	m *metrics.Registry,
) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Orchestrator{
		searcher:      searcher,
		chain:         chain,
		estimator:     estimator,
		store:         store,
		ttls:          ttls,
		maxConcurrent: maxConcurrent,
		logger:        logger,
		metrics:       m,
	}
}

// Discover runs the full pipeline: venue search, per-venue extraction,
// nutrition fill-in, goal-fit tagging, ranking, pagination.
func (o *Orchestrator) Discover(ctx context.Context, params DiscoverParams) (DiscoverResult, error) {
	venues, err := o.findVenues(ctx, params)
	if err != nil {
		return DiscoverResult{}, err
	}
	if len(venues) == 0 {
		return DiscoverResult{}, &internal.MealDiscoveryError{
			Message: "no restaurants found in the search area",
			Details: fmt.Sprintf("lat=%.4f lon=%.4f radius=%.1fmi", params.Lat, params.Lon, params.RadiusMiles),
		}
	}

	perVenue := make([][]internal.MealCandidate, len(venues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrent)
	for i, venue := range venues {
		i, venue := i, venue
		g.Go(func() error {
			perVenue[i] = o.mealsForVenue(gctx, venue, params)
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]internal.MealCandidate, 0, len(venues)*4)
	for _, meals := range perVenue {
		merged = append(merged, meals...)
	}
	merged = o.refine(ctx, merged, params)

	ranked := rank.Rank(merged, rank.Options{Strict: true})
	total := len(ranked)
	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return DiscoverResult{
		Meals:    ranked[start:end],
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (o *Orchestrator) findVenues(ctx context.Context, params DiscoverParams) ([]internal.Venue, error) {
	keyword := strings.ReplaceAll(params.Goal.Name, "_", " ")
	radiusMeters := int(params.RadiusMiles * metersPerMile)
	key := cache.Key("places",
		fmt.Sprintf("%.4f", params.Lat),
		fmt.Sprintf("%.4f", params.Lon),
		fmt.Sprintf("%d", radiusMeters),
		keyword,
	)
	if params.Refresh {
		o.store.Invalidate(ctx, key)
	}
	return cache.GetOrSetJSON(ctx, o.store, key, o.ttls.VenueSearch, func(ctx context.Context) ([]internal.Venue, error) {
		return o.searcher.Search(ctx, params.Lat, params.Lon, radiusMeters, keyword)
	})
}

// mealsForVenue walks the source chain in order, caching whichever
// tier's output wins. It never returns an empty slice while the
// synthetic tier is in the chain.
func (o *Orchestrator) mealsForVenue(ctx context.Context, venue internal.Venue, params DiscoverParams) []internal.MealCandidate {
	key := cache.Key("venue_meals", venue.ID, params.Goal.Name)
	if params.Refresh {
		o.store.Invalidate(ctx, key)
	}
	meals, err := cache.GetOrSetJSON(ctx, o.store, key, o.ttls.VenueMeals, func(ctx context.Context) ([]internal.MealCandidate, error) {
		for _, src := range o.chain {
			found, err := src.MealsForVenue(ctx, venue, params.Goal.Name)
			if err != nil {
				o.metrics.Inc("source.fallback." + src.Name())
				o.logger.Infof("source: venue %q falling past %s: %v", venue.Name, src.Name(), err)
				continue
			}
			if len(found) == 0 {
				o.metrics.Inc("source.fallback." + src.Name())
				continue
			}
			o.metrics.Inc("source.served." + src.Name())
			return found, nil
		}
		return nil, fmt.Errorf("all meal sources exhausted for venue %s", venue.ID)
	})
	if err != nil {
		o.logger.Warnf("source: venue %q yielded no meals: %v", venue.Name, err)
		return nil
	}
	return meals
}

// refine fills in missing nutrition, applies goal-fit tags and flavor
// preferences, and drops meals containing excluded ingredients.
func (o *Orchestrator) refine(ctx context.Context, meals []internal.MealCandidate, params DiscoverParams) []internal.MealCandidate {
	out := make([]internal.MealCandidate, 0, len(meals))
	for _, m := range meals {
		if excluded(m, params.ExcludeIngreds) {
			continue
		}
		if m.Nutrition.Calories == 0 {
			m.Nutrition = o.cachedEstimate(ctx, m.Name, m.Description)
		}
		fit := nutrition.AnalyzeGoalFit(m.Nutrition, params.Goal)
		m.Tags = append(m.Tags, fit.Tags...)
		m.RelevanceScore = (m.RelevanceScore + fit.MatchScore) / 2
		if flavorMatch(m, params.FlavorPrefs) {
			m.Tags = append(m.Tags, "flavor match")
			m.RelevanceScore += 0.1
			if m.RelevanceScore > 1 {
				m.RelevanceScore = 1
			}
		}
		out = append(out, m)
	}
	return out
}

func (o *Orchestrator) cachedEstimate(ctx context.Context, name, description string) internal.NutritionEstimate {
	key := cache.Key("nutrition", name, description)
	est, err := cache.GetOrSetJSON(ctx, o.store, key, o.ttls.Nutrition, func(ctx context.Context) (internal.NutritionEstimate, error) {
		return o.estimator.Estimate(ctx, name, description), nil
	})
	if err != nil {
		return o.estimator.Estimate(ctx, name, description)
	}
	return est
}

func excluded(m internal.MealCandidate, ingredients []string) bool {
	if len(ingredients) == 0 {
		return false
	}
	text := strings.ToLower(m.Name + " " + m.Description)
	for _, ing := range ingredients {
		if ing = strings.ToLower(strings.TrimSpace(ing)); ing != "" && strings.Contains(text, ing) {
			return true
		}
	}
	return false
}

func flavorMatch(m internal.MealCandidate, flavors []string) bool {
	if len(flavors) == 0 {
		return false
	}
	text := strings.ToLower(m.Name + " " + m.Description)
	for _, f := range flavors {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && strings.Contains(text, f) {
			return true
		}
	}
	return false
}
