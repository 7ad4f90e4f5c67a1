package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

var (
	redisURL string
	cacheDir string
)

// addFeedFlags registers the feed cache flags on cmd.
func addFeedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&redisURL, "redis-url", envOr("REDIS_URL", ""), "cache feed posts in Redis (env REDIS_URL)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache feed posts in this directory")
}

// feedCache is the cache selected by the feed flags. The zero value
// disables caching.
type feedCache struct {
	cache feed.Cache
	redis *feed.RedisCache
}

func (c *feedCache) close() error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

func openFeedCache(ctx context.Context) (*feedCache, error) {
	switch {
	case redisURL != "":
		rc, err := feed.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, err
		}
		return &feedCache{cache: rc, redis: rc}, nil
	case cacheDir != "":
		fc, err := feed.NewFileCache(cacheDir)
		if err != nil {
			return nil, err
		}
		return &feedCache{cache: fc}, nil
	}
	return &feedCache{}, nil
}

func newFeedService(site *config.Site, cache *feedCache, logger logging.Logger) *feed.Service {
	return feed.NewService(feed.NewClient(site.Blog.FeedProxy), cache.cache, 0, logger)
}

// loadPosts fetches the posts baked into a static export.
func loadPosts(ctx context.Context, site *config.Site, logger logging.Logger) ([]feed.Post, error) {
	if !site.Blog.Enabled {
		return nil, nil
	}
	cache, err := openFeedCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("feed cache: %w", err)
	}
	defer cache.close()

	posts := newFeedService(site, cache, logger).Recent(ctx, site.Blog.FeedURL)
	if len(posts) == 0 {
		printWarning("no blog posts loaded from %s; the blog section is left out", site.Blog.FeedURL)
	}
	return posts, nil
}
