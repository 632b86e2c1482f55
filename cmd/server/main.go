package main

import (
	"log"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/api"
	"github.com/realakshayk/good-eats/internal/auth"
	"github.com/realakshayk/good-eats/internal/cache"
	"github.com/realakshayk/good-eats/internal/config"
	"github.com/realakshayk/good-eats/internal/extract"
	"github.com/realakshayk/good-eats/internal/goal"
	"github.com/realakshayk/good-eats/internal/metrics"
	"github.com/realakshayk/good-eats/internal/nutrition"
	"github.com/realakshayk/good-eats/internal/ratelimit"
	"github.com/realakshayk/good-eats/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := internal.NewZapLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	registry := metrics.NewRegistry()

	// Redis backs both the fast cache tier and the rate-limit counters.
	// Everything degrades gracefully when it is unreachable.
	var fastTier cache.Tier
	var counters ratelimit.CounterStore = ratelimit.NewMemoryCounters()
	redisClient, err := cache.NewRedisClient(cfg.RedisURI)
	if err != nil {
		logger.Warnf("redis unavailable, using local tiers only: %v", err)
	} else {
		fastTier = cache.NewRedisTier(redisClient)
		counters = ratelimit.NewRedisCounters(redisClient)
	}

	durableTier, err := cache.NewDurableTier(cfg, logger)
	if err != nil {
		logger.Fatalf("cache backend: %v", err)
	}
	store := cache.NewStore(fastTier, durableTier, logger, registry)

	keyring, err := auth.NewKeyring(cfg.APIKeys, logger)
	if err != nil {
		logger.Fatalf("api keys: %v", err)
	}
	limiter := ratelimit.NewLimiter(counters, ratelimit.DefaultPlans(), logger)

	var chat extract.ChatClient
	if cfg.OpenAIKey != "" {
		chat = extract.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		logger.Warn("OPENAI_API_KEY not set, extraction runs on the fallback parser only")
	}
	parser := extract.NewMenuParser(chat, logger, registry, cfg.LLMTimeout)
	estimator := nutrition.NewEstimator(chat, logger, registry, cfg.LLMTimeout)

	chain := buildChain(cfg, parser, store, logger)
	searcher := source.NewPlacesClient(cfg.PlacesAPIKey, cfg.PlacesBaseURL, logger)
	orchestrator := source.NewOrchestrator(
		searcher,
		chain,
		estimator,
		store,
		source.TTLs{VenueSearch: cfg.TTLVenueSearch, VenueMeals: cfg.TTLLLMParse, Nutrition: cfg.TTLNutrition},
		cfg.MaxConcurrentVenues,
		logger,
		registry,
	)

	resolver := goal.NewResolver()
	handler := api.NewHandler(resolver, orchestrator, registry, logger)
	router := api.NewRouter(handler, keyring, limiter, logger, cfg.Env)

	logger.Infof("listening on %s (env=%s cache=%s)", cfg.Addr, cfg.Env, cfg.CacheBackend)
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
}

// buildChain assembles the per-venue source fallback chain in priority
// order. Tiers without configuration are skipped; the synthetic tier is
// always last so a venue never comes back empty.
func buildChain(cfg *config.Config, parser *extract.MenuParser, store *cache.Store, logger internal.Logger) []source.MealSource {
	var chain []source.MealSource
	if cfg.PrimaryMealAPIURL != "" {
		chain = append(chain, source.NewAPISource("primary_api", cfg.PrimaryMealAPIURL, cfg.MealAPIKey, logger))
	}
	if cfg.SecondaryMealAPIURL != "" {
		chain = append(chain, source.NewAPISource("secondary_api", cfg.SecondaryMealAPIURL, cfg.MealAPIKey, logger))
	}
	chain = append(chain, source.NewMenuSource(parser, store, cfg.TTLMenuText, logger))
	static, err := source.NewStaticSource(cfg.StaticMealsFile)
	if err != nil {
		logger.Warnf("static meal dataset unavailable: %v", err)
	} else {
		chain = append(chain, static)
	}
	return append(chain, source.SyntheticSource{})
}
