package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Addr     string

	RedisURI string

	OpenAIKey   string
	OpenAIModel string
	LLMTimeout  time.Duration

	PlacesAPIKey  string
	PlacesBaseURL string

	PrimaryMealAPIURL   string
	SecondaryMealAPIURL string
	MealAPIKey          string

	CacheBackend    string // file | postgres
	CacheDir        string
	PostgresDSN     string
	StaticMealsFile string

	TTLVenueSearch time.Duration
	TTLMenuText    time.Duration
	TTLLLMParse    time.Duration
	TTLNutrition   time.Duration

	MaxConcurrentVenues int

	// APIKeys is a comma-separated list of key:plan pairs, e.g.
	// "demo-key:free,partner-key:premium".
	APIKeys string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Addr:     getEnv("LISTEN_ADDR", ":8000"),

		RedisURI: getEnv("REDIS_URI", "redis://localhost:6379/0"),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:  getDuration("LLM_TIMEOUT", 30*time.Second),

		PlacesAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		PlacesBaseURL: getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),

		PrimaryMealAPIURL:   getEnv("PRIMARY_MEAL_API_URL", ""),
		SecondaryMealAPIURL: getEnv("SECONDARY_MEAL_API_URL", ""),
		MealAPIKey:          getEnv("MEAL_API_KEY", ""),

		CacheBackend:    getEnv("CACHE_BACKEND", "file"),
		CacheDir:        getEnv("CACHE_DIR", "data/file_cache"),
		PostgresDSN:     getEnv("POSTGRES_DSN", ""),
		StaticMealsFile: getEnv("STATIC_MEALS_FILE", "data/static_meals.json"),

		TTLVenueSearch: getDuration("TTL_VENUE_SEARCH", time.Hour),
		TTLMenuText:    getDuration("TTL_MENU_TEXT", 24*time.Hour),
		TTLLLMParse:    getDuration("TTL_LLM_PARSE", 24*time.Hour),
		TTLNutrition:   getDuration("TTL_NUTRITION", 24*time.Hour),

		MaxConcurrentVenues: getInt("MAX_CONCURRENT_VENUES", 3),

		APIKeys: getEnv("API_KEYS", "demo-key:free"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.CacheBackend != "file" && c.CacheBackend != "postgres" {
		return errors.New("CACHE_BACKEND must be file or postgres")
	}
	if c.CacheBackend == "postgres" && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when CACHE_BACKEND=postgres")
	}
	if c.CacheBackend == "file" && c.CacheDir == "" {
		return errors.New("CACHE_DIR is required when CACHE_BACKEND=file")
	}
	if c.MaxConcurrentVenues < 1 {
		return errors.New("MAX_CONCURRENT_VENUES must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
