package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/realakshayk/good-eats/internal"
)

// PostgresTier is a durable cache tier backed by a key/value table, for
// deployments that want cache entries to survive host replacement.
type PostgresTier struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresTier(dsn string, logger internal.Logger) (*PostgresTier, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("cache: failed to connect to postgres: %v", err)
		return nil, err
	}
	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresTier{pool: pool, logger: logger}, nil
}

func (t *PostgresTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row := t.pool.QueryRow(ctx, `SELECT value FROM cache_entries WHERE key = $1 AND expires_at > now()`, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (t *PostgresTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := t.pool.Exec(ctx, `INSERT INTO cache_entries (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, time.Now().Add(ttl))
	return err
}

func (t *PostgresTier) Delete(ctx context.Context, key string) error {
	_, err := t.pool.Exec(ctx, `DELETE FROM cache_entries WHERE key = $1`, key)
	return err
}

func (t *PostgresTier) Close() {
	t.pool.Close()
}

var _ Tier = (*PostgresTier)(nil)
