package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/realakshayk/good-eats/internal"
	"github.com/realakshayk/good-eats/internal/metrics"
)

func newTestStore(t *testing.T) *Store {
	tier, err := NewFileTier(t.TempDir())
	assert.NoError(t, err)
	return NewStore(nil, tier, internal.NewNopLogger(), metrics.NewRegistry())
}

func TestGetOrSetComputesOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`"hello"`), nil
	}

	for i := 0; i < 3; i++ {
		val, err := store.GetOrSet(ctx, Key("test", "a"), time.Minute, compute)
		assert.NoError(t, err)
		assert.Equal(t, `"hello"`, string(val))
	}
	assert.Equal(t, 1, calls)
}

func TestGetOrSetRecomputesAfterExpiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`1`), nil
	}

	_, err := store.GetOrSet(ctx, Key("test", "b"), 10*time.Millisecond, compute)
	assert.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = store.GetOrSet(ctx, Key("test", "b"), 10*time.Millisecond, compute)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := Key("test", "c")
	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(`2`), nil
	}

	_, _ = store.GetOrSet(ctx, key, time.Minute, compute)
	store.Invalidate(ctx, key)
	_, _ = store.GetOrSet(ctx, key, time.Minute, compute)
	assert.Equal(t, 2, calls)
}

func TestGetOrSetComputeError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	wantErr := errors.New("upstream down")
	_, err := store.GetOrSet(ctx, Key("test", "d"), time.Minute, func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrSetJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	got, err := GetOrSetJSON(ctx, store, Key("test", "e"), time.Minute, func(ctx context.Context) (payload, error) {
		return payload{Name: "bowl", Count: 2}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, payload{Name: "bowl", Count: 2}, got)

	// Second read hits the cache and must decode identically.
	got, err = GetOrSetJSON(ctx, store, Key("test", "e"), time.Minute, func(ctx context.Context) (payload, error) {
		return payload{}, errors.New("should not recompute")
	})
	assert.NoError(t, err)
	assert.Equal(t, "bowl", got.Name)
}

func TestKeyDeterministicAndCaseInsensitive(t *testing.T) {
	assert.Equal(t, Key("places", "A", "B"), Key("places", "a", "b"))
	assert.NotEqual(t, Key("places", "a"), Key("nutrition", "a"))
}

func TestFileTierCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	tier, err := NewFileTier(dir)
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, tier.Set(ctx, "k", []byte(`{"x":1}`), time.Minute))
	val, ok, err := tier.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"x":1}`, string(val))

	_, ok, err = tier.Get(ctx, "never-set")
	assert.NoError(t, err)
	assert.False(t, ok)
}
