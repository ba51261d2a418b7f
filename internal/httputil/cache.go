package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by Cache.Get when an entry exists but is older than
// the TTL. The stale value is still readable with GetStale.
var ErrExpired = errors.New("cache entry expired")

// Cache stores JSON values as files named by the SHA-256 of their key.
// Entry age is the file modification time; a zero TTL never expires.
// A Cache is not safe for concurrent use.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) Dir() string        { return c.dir }
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads a fresh entry into v. It returns (false, nil) on a miss and
// (false, ErrExpired) for a stale entry, leaving v untouched in both cases.
func (c *Cache) Get(key string, v any) (bool, error) {
	age, ok, err := c.stat(key)
	if err != nil || !ok {
		return false, err
	}
	if c.ttl > 0 && age > c.ttl {
		return false, ErrExpired
	}
	return c.read(key, v)
}

// GetStale loads an entry into v regardless of its age and reports the age.
func (c *Cache) GetStale(key string, v any) (time.Duration, bool, error) {
	age, ok, err := c.stat(key)
	if err != nil || !ok {
		return 0, false, err
	}
	ok, err = c.read(key, v)
	return age, ok, err
}

// Set writes v under key, refreshing its age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Namespace returns a view of the same directory whose keys carry prefix.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) stat(key string) (time.Duration, bool, error) {
	info, err := os.Stat(c.keyPath(key))
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return time.Since(info.ModTime()), true, nil
}

func (c *Cache) read(key string, v any) (bool, error) {
	data, err := os.ReadFile(c.keyPath(key))
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
