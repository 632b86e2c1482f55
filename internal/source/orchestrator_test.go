package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/cache"
	"github.com/realakshayk/good-eats/internal/goal"
	"github.com/realakshayk/good-eats/internal/metrics"
	"github.com/realakshayk/good-eats/internal/nutrition"
)

type stubSearcher struct {
	venues []internal.Venue
	err    error
	calls  int
}

func (s *stubSearcher) Search(ctx context.Context, lat, lon float64, radiusMeters int, keyword string) ([]internal.Venue, error) {
	s.calls++
	return s.venues, s.err
}

type stubSource struct {
	name  string
	meals []internal.MealCandidate
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) MealsForVenue(ctx context.Context, venue internal.Venue, goalName string) ([]internal.MealCandidate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]internal.MealCandidate, len(s.meals))
	for i, m := range s.meals {
		m.Venue = summarize(venue)
		out[i] = m
	}
	return out, nil
}

func testVenues() []internal.Venue {
	return []internal.Venue{
		{ID: "v1", Name: "Green Fork", Address: "1 Main St", Rating: 4.4},
		{ID: "v2", Name: "Iron Grill", Address: "2 Oak Ave", Rating: 4.1},
	}
}

func testCandidate(name string, relevance float64) internal.MealCandidate {
	return internal.MealCandidate{
		Name:           name,
		Description:    "grilled chicken with rice",
		Tags:           []string{"high_protein"},
		RelevanceScore: relevance,
		Nutrition: internal.NutritionEstimate{
			Calories: 700, Protein: 61, Carbs: 61, Fat: 20,
			Confidence: internal.ConfidenceHigh, Origin: internal.OriginAPI,
		},
		Confidence: internal.ConfidenceHigh,
		Origin:     internal.OriginAPI,
	}
}

func muscleGain() goal.Goal {
	return goal.Goal{
		Name:        "muscle_gain",
		CaloriesMin: 400, CaloriesMax: 900,
		Protein: goal.MacroRange{Min: 0.3, Max: 0.4},
		Carbs:   goal.MacroRange{Min: 0.3, Max: 0.4},
		Fat:     goal.MacroRange{Min: 0.2, Max: 0.3},
	}
}

func newTestOrchestrator(t *testing.T, searcher VenueSearcher, chain []MealSource) *Orchestrator {
	ttls := TTLs{VenueSearch: time.Minute, VenueMeals: time.Minute, Nutrition: time.Minute}
	o, _ := newTestOrchestratorTTLs(t, searcher, chain, ttls)
	return o
}

func newTestOrchestratorTTLs(t *testing.T, searcher VenueSearcher, chain []MealSource, ttls TTLs) (*Orchestrator, *metrics.Registry) {
	tier, err := cache.NewFileTier(t.TempDir())
	assert.NoError(t, err)
	logger := internal.NewNopLogger()
	registry := metrics.NewRegistry()
	store := cache.NewStore(nil, tier, logger, registry)
	estimator := nutrition.NewEstimator(nil, logger, registry, time.Second)
	return NewOrchestrator(searcher, chain, estimator, store, ttls, 3, logger, registry), registry
}

func params(g goal.Goal) DiscoverParams {
	return DiscoverParams{Goal: g, Lat: 37.77, Lon: -122.42, RadiusMiles: 5, Page: 1, PageSize: 10}
}

func TestDiscoverHappyPath(t *testing.T) {
	primary := &stubSource{name: "primary_api", meals: []internal.MealCandidate{
		testCandidate("Steak Plate", 0.9),
		testCandidate("Chicken Bowl", 0.7),
	}}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()}, []MealSource{primary})

	result, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Equal(t, 4, result.Total) // two meals per venue
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, "Steak Plate", result.Meals[0].Name)
}

func TestDiscoverNoVenues(t *testing.T) {
	o := newTestOrchestrator(t, &stubSearcher{}, []MealSource{&stubSource{name: "primary_api"}})
	_, err := o.Discover(context.Background(), params(muscleGain()))
	var discoveryErr *internal.MealDiscoveryError
	assert.True(t, errors.As(err, &discoveryErr))
}

func TestDiscoverFallsThroughChain(t *testing.T) {
	primary := &stubSource{name: "primary_api", err: errors.New("api down")}
	secondary := &stubSource{name: "secondary_api", err: errors.New("also down")}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()}, []MealSource{primary, secondary, SyntheticSource{}})

	result, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Meals)
	for _, m := range result.Meals {
		assert.Equal(t, internal.OriginManual, m.Origin)
	}
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestDiscoverPartialVenueFailure(t *testing.T) {
	// The only source fails for every venue and there is no synthetic
	// tier; discovery still succeeds with whatever ranked above zero.
	flaky := &stubSource{name: "primary_api", err: errors.New("boom")}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()}, []MealSource{flaky})

	result, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Meals)
}

func TestDiscoverCachesVenueSearch(t *testing.T) {
	searcher := &stubSearcher{venues: testVenues()}
	primary := &stubSource{name: "primary_api", meals: []internal.MealCandidate{testCandidate("Chicken Bowl", 0.8)}}
	o := newTestOrchestrator(t, searcher, []MealSource{primary})

	_, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	_, err = o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, 2, primary.calls) // once per venue, then cached

	p := params(muscleGain())
	p.Refresh = true
	_, err = o.Discover(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestDiscoverExcludesIngredients(t *testing.T) {
	primary := &stubSource{name: "primary_api", meals: []internal.MealCandidate{testCandidate("Chicken Bowl", 0.8)}}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()[:1]}, []MealSource{primary})

	p := params(muscleGain())
	p.ExcludeIngreds = []string{"chicken"}
	result, err := o.Discover(context.Background(), p)
	assert.NoError(t, err)
	assert.Empty(t, result.Meals)
}

func TestDiscoverFillsMissingNutrition(t *testing.T) {
	bare := testCandidate("Mystery Burger", 0.8)
	bare.Nutrition = internal.NutritionEstimate{}
	primary := &stubSource{name: "primary_api", meals: []internal.MealCandidate{bare}}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()[:1]}, []MealSource{primary})

	result, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Len(t, result.Meals, 1)
	assert.NotZero(t, result.Meals[0].Nutrition.Calories)
	assert.Equal(t, internal.OriginRule, result.Meals[0].Nutrition.Origin)
}

func TestDiscoverNutritionUsesOwnTTL(t *testing.T) {
	bare := testCandidate("Mystery Burger", 0.8)
	bare.Nutrition = internal.NutritionEstimate{}
	primary := &stubSource{name: "primary_api", meals: []internal.MealCandidate{bare}}
	ttls := TTLs{VenueSearch: time.Minute, VenueMeals: time.Minute, Nutrition: 0}
	o, registry := newTestOrchestratorTTLs(t, &stubSearcher{venues: testVenues()[:1]}, []MealSource{primary}, ttls)

	_, err := o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Equal(t, int64(3), registry.Get("cache.miss")) // places, venue meals, nutrition

	// The venue caches are still warm, but the zero nutrition TTL has
	// already lapsed, so only the nutrition lookup misses again.
	_, err = o.Discover(context.Background(), params(muscleGain()))
	assert.NoError(t, err)
	assert.Equal(t, int64(4), registry.Get("cache.miss"))
}

func TestDiscoverPaginates(t *testing.T) {
	meals := []internal.MealCandidate{
		testCandidate("A", 0.9), testCandidate("B", 0.8), testCandidate("C", 0.7),
	}
	primary := &stubSource{name: "primary_api", meals: meals}
	o := newTestOrchestrator(t, &stubSearcher{venues: testVenues()[:1]}, []MealSource{primary})

	p := params(muscleGain())
	p.PageSize = 2
	result, err := o.Discover(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Meals, 2)

	p.Page = 2
	result, err = o.Discover(context.Background(), p)
	assert.NoError(t, err)
	assert.Len(t, result.Meals, 1)

	p.Page = 5 // past the end
	result, err = o.Discover(context.Background(), p)
	assert.NoError(t, err)
	assert.Empty(t, result.Meals)
}
