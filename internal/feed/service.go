package feed

import (
	"context"
	"time"

	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

// DefaultTTL is how long fetched posts are reused.
const DefaultTTL = 15 * time.Minute

// Fetcher loads posts for a feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Post, error)
}

// Service serves recent posts through an optional cache. Failures never
// propagate: the blog section is simply left out.
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	logger  logging.Logger
}

// NewService creates a service. cache may be nil.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration, logger logging.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Service{fetcher: fetcher, cache: cache, ttl: ttl, logger: logger}
}

// Recent returns the newest posts, or nil when they cannot be loaded.
func (s *Service) Recent(ctx context.Context, feedURL string) []Post {
	if s == nil || feedURL == "" {
		return nil
	}
	log := s.logger.With(logging.String("feed", feedURL))

	if s.cache != nil {
		posts, ok, err := s.cache.Get(ctx, feedURL)
		if err != nil {
			log.Warn("feed cache read failed", logging.Err(err))
		} else if ok {
			return posts
		}
	}

	posts, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		log.Warn("feed fetch failed", logging.Err(err))
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, feedURL, posts, s.ttl); err != nil {
			log.Warn("feed cache write failed", logging.Err(err))
		}
	}
	log.Debug("feed fetched", logging.Int("posts", len(posts)))
	return posts
}
