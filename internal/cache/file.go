package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type fileEntry struct {
	Value   json.RawMessage `json:"value"`
	Expires int64           `json:"expires"` // unix seconds, absolute
}

// FileTier is the local durable fallback tier. Each entry lives in its
// own JSON file named by the hash of the key; expired entries are
// removed lazily on read.
type FileTier struct {
	dir string
}

func NewFileTier(dir string) (*FileTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileTier{dir: dir}, nil
}

func (t *FileTier) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(t.dir, hex.EncodeToString(h[:])+".json")
}

func (t *FileTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(t.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt entry, treat as a miss and drop it.
		_ = os.Remove(t.path(key))
		return nil, false, nil
	}
	if time.Now().Unix() >= entry.Expires {
		_ = os.Remove(t.path(key))
		return nil, false, nil
	}
	return entry.Value, true, nil
}

func (t *FileTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := fileEntry{Value: value, Expires: time.Now().Add(ttl).Unix()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	// Write to a temp file and rename so readers never see partial data.
	path := t.path(key)
	tmp, err := os.CreateTemp(t.dir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (t *FileTier) Delete(ctx context.Context, key string) error {
	err := os.Remove(t.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ Tier = (*FileTier)(nil)
