package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores fetched posts per feed URL.
type Cache interface {
	// Get returns cached posts and whether a fresh entry exists.
	Get(ctx context.Context, feedURL string) ([]Post, bool, error)
	Set(ctx context.Context, feedURL string, posts []Post, ttl time.Duration) error
}

// CacheKey derives the storage key for a feed URL.
func CacheKey(feedURL string) string {
	return "linkhub:feed:" + feedHash(feedURL)
}

func feedHash(feedURL string) string {
	sum := sha256.Sum256([]byte(feedURL))
	return hex.EncodeToString(sum[:8])
}

type cacheEntry struct {
	Expires time.Time `msgpack:"expires"`
	Posts   []Post    `msgpack:"posts"`
}

// FileCache keeps msgpack-encoded entries in a directory. It lets repeated
// exports reuse one fetch.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("feed: create cache dir: %w", err)
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

func (c *FileCache) path(feedURL string) string {
	return filepath.Join(c.dir, "feed-"+feedHash(feedURL)+".msgpack")
}

func (c *FileCache) Get(_ context.Context, feedURL string) ([]Post, bool, error) {
	data, err := os.ReadFile(c.path(feedURL))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("feed: read cache: %w", err)
	}
	var entry cacheEntry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("feed: decode cache: %w", err)
	}
	if c.now().After(entry.Expires) {
		return nil, false, nil
	}
	return entry.Posts, true, nil
}

func (c *FileCache) Set(_ context.Context, feedURL string, posts []Post, ttl time.Duration) error {
	data, err := msgpack.Marshal(cacheEntry{Expires: c.now().Add(ttl), Posts: posts})
	if err != nil {
		return fmt.Errorf("feed: encode cache: %w", err)
	}
	tmp := c.path(feedURL) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("feed: write cache: %w", err)
	}
	return os.Rename(tmp, c.path(feedURL))
}

// RedisCache shares fetched posts between server replicas.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis URL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("feed: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("feed: redis ping: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, feedURL string) ([]Post, bool, error) {
	data, err := c.client.Get(ctx, CacheKey(feedURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("feed: redis get: %w", err)
	}
	var posts []Post
	if err := msgpack.Unmarshal(data, &posts); err != nil {
		return nil, false, fmt.Errorf("feed: decode cache: %w", err)
	}
	return posts, true, nil
}

func (c *RedisCache) Set(ctx context.Context, feedURL string, posts []Post, ttl time.Duration) error {
	data, err := msgpack.Marshal(posts)
	if err != nil {
		return fmt.Errorf("feed: encode cache: %w", err)
	}
	if err := c.client.Set(ctx, CacheKey(feedURL), data, ttl).Err(); err != nil {
		return fmt.Errorf("feed: redis set: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
