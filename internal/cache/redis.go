package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTier is the fast shared cache tier.
type RedisTier struct {
	client *redis.Client
}

func NewRedisTier(client *redis.Client) *RedisTier {
	return &RedisTier{client: client}
}

// NewRedisClient dials redis with short timeouts and verifies the
// connection before handing the client out.
func NewRedisClient(uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (t *RedisTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := t.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (t *RedisTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return t.client.Set(ctx, key, value, ttl).Err()
}

func (t *RedisTier) Delete(ctx context.Context, key string) error {
	return t.client.Del(ctx, key).Err()
}

var _ Tier = (*RedisTier)(nil)
