// Package feed fetches recent blog posts through an RSS-to-JSON proxy.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gabrielmiguelok/linkhub/pkg/retry"
)

const (
	// MaxPosts is how many posts the blog section shows.
	MaxPosts = 3
	// ExcerptLength is the rune limit for post descriptions.
	ExcerptLength = 200
	// DefaultAuthor is used when the feed omits an author.
	DefaultAuthor = "Author"

	dateLayout = "Jan 2, 2006"
)

var (
	// ErrFeedStatus is returned when the proxy reports a failed conversion.
	ErrFeedStatus = errors.New("feed: proxy returned non-ok status")
	// ErrNoFeed is returned when no feed URL is configured.
	ErrNoFeed = errors.New("feed: no feed url configured")
)

// Post is one blog entry prepared for rendering.
type Post struct {
	ID          string    `json:"id" msgpack:"id"`
	Title       string    `json:"title" msgpack:"title"`
	Description string    `json:"description" msgpack:"description"`
	Date        string    `json:"date" msgpack:"date"`
	Author      string    `json:"author" msgpack:"author"`
	ImageURL    string    `json:"imageUrl,omitempty" msgpack:"image_url,omitempty"`
	Link        string    `json:"link" msgpack:"link"`
	Published   time.Time `json:"published" msgpack:"published"`
}

type proxyResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Items   []proxyItem `json:"items"`
}

type proxyItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	Author      string `json:"author"`
	Thumbnail   string `json:"thumbnail"`
	Enclosure   struct {
		Link string `json:"link"`
	} `json:"enclosure"`
}

// Client talks to the RSS-to-JSON proxy.
type Client struct {
	proxy  string
	http   *http.Client
	retry  *retry.Config
	policy *bluemonday.Policy
	now    func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRetry sets the backoff for transient failures.
func WithRetry(cfg *retry.Config) ClientOption {
	return func(cl *Client) {
		cl.retry = cfg
	}
}

// WithClock overrides the clock used for post IDs.
func WithClock(now func() time.Time) ClientOption {
	return func(cl *Client) {
		cl.now = now
	}
}

// NewClient creates a client for the proxy endpoint.
func NewClient(proxy string, opts ...ClientOption) *Client {
	c := &Client{
		proxy:  proxy,
		http:   &http.Client{Timeout: 10 * time.Second},
		retry:  retry.DefaultConfig(),
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the newest posts of the RSS feed at feedURL.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]Post, error) {
	if feedURL == "" {
		return nil, ErrNoFeed
	}
	endpoint := ProxyURL(c.proxy, feedURL)

	resp, err := retry.Do(ctx, c.retry, func(ctx context.Context) (*proxyResponse, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", feedURL, err)
	}
	return c.posts(resp.Items), nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*proxyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("proxy returned %s", res.Status)
	}
	if res.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, retry.Permanent(fmt.Errorf("proxy returned %s", res.Status))
	}

	var out proxyResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 4<<20)).Decode(&out); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode proxy response: %w", err))
	}
	if out.Status != "ok" {
		return nil, retry.Permanent(fmt.Errorf("%w: %s %s", ErrFeedStatus, out.Status, out.Message))
	}
	return &out, nil
}

func (c *Client) posts(items []proxyItem) []Post {
	if len(items) > MaxPosts {
		items = items[:MaxPosts]
	}
	stamp := c.now().UnixMilli()
	posts := make([]Post, 0, len(items))
	for i, it := range items {
		p := Post{
			ID:          fmt.Sprintf("blog-%d-%d", i, stamp),
			Title:       c.plain(it.Title),
			Description: Excerpt(c.plain(it.Description)),
			Author:      it.Author,
			ImageURL:    it.Thumbnail,
			Link:        it.Link,
		}
		if p.Author == "" {
			p.Author = DefaultAuthor
		}
		if p.ImageURL == "" {
			p.ImageURL = it.Enclosure.Link
		}
		if t, ok := parseDate(it.PubDate); ok {
			p.Published = t
			p.Date = t.Format(dateLayout)
		} else {
			p.Date = it.PubDate
		}
		posts = append(posts, p)
	}
	return posts
}

// plain strips markup and decodes entities.
func (c *Client) plain(s string) string {
	s = html.UnescapeString(c.policy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// ProxyURL returns the proxy request that converts the feed at feedURL.
func ProxyURL(proxy, feedURL string) string {
	return proxy + "?rss_url=" + url.QueryEscape(feedURL)
}

// Excerpt truncates s to ExcerptLength runes followed by "..." when longer.
func Excerpt(s string) string {
	if utf8.RuneCountInString(s) <= ExcerptLength {
		return s
	}
	r := []rune(s)
	return string(r[:ExcerptLength]) + "..."
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
