package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/metrics"
)

// Tier is one cache layer. A miss is (nil, false, nil); errors mean the
// tier itself is unavailable, not that the key is absent.
type Tier interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Store reads through a fast shared tier and a local durable tier. On a
// full miss, compute runs once in this process and the result is written
// to both tiers. Concurrent misses for the same key may each run compute;
// the last writer's value and TTL win. No cross-process locking.
type Store struct {
	fast    Tier // may be nil when the shared tier is not configured
	durable Tier
	logger  internal.Logger
	metrics *metrics.Registry
}

func NewStore(fast, durable Tier, logger internal.Logger, m *metrics.Registry) *Store {
	return &Store{fast: fast, durable: durable, logger: logger, metrics: m}
}

func (s *Store) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if s.fast != nil {
		val, ok, err := s.fast.Get(ctx, key)
		if err != nil {
			s.logger.Warnf("cache: fast tier unavailable for %s: %v", key, err)
		} else if ok {
			s.metrics.Inc("cache.hit.fast")
			return val, nil
		}
	}
	if val, ok, err := s.durable.Get(ctx, key); err != nil {
		s.logger.Warnf("cache: durable tier read failed for %s: %v", key, err)
	} else if ok {
		s.metrics.Inc("cache.hit.durable")
		return val, nil
	}

	s.metrics.Inc("cache.miss")
	val, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.fast != nil {
		if err := s.fast.Set(ctx, key, val, ttl); err != nil {
			s.logger.Warnf("cache: fast tier write failed for %s: %v", key, err)
		}
	}
	if err := s.durable.Set(ctx, key, val, ttl); err != nil {
		s.logger.Warnf("cache: durable tier write failed for %s: %v", key, err)
	}
	return val, nil
}

// Invalidate removes the key from both tiers.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if s.fast != nil {
		if err := s.fast.Delete(ctx, key); err != nil {
			s.logger.Warnf("cache: fast tier delete failed for %s: %v", key, err)
		}
	}
	if err := s.durable.Delete(ctx, key); err != nil {
		s.logger.Warnf("cache: durable tier delete failed for %s: %v", key, err)
	}
}

// GetOrSetJSON is GetOrSet with JSON (de)serialization of the computed value.
func GetOrSetJSON[T any](ctx context.Context, s *Store, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := s.GetOrSet(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Key builds a deterministic cache key from an operation class and its
// normalized inputs.
func Key(op string, parts ...string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.Join(parts, "|"))))
	return "goodeats:" + op + ":" + hex.EncodeToString(h[:16])
}
