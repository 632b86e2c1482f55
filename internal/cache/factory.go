package cache

import (
	"fmt"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/config"
)

// NewDurableTier selects the durable cache backend from config.
func NewDurableTier(cfg *config.Config, logger internal.Logger) (Tier, error) {
	switch cfg.CacheBackend {
	case "postgres":
		return NewPostgresTier(cfg.PostgresDSN, logger)
	case "file":
		return NewFileTier(cfg.CacheDir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
