package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/linkhub/internal/config"
	"github.com/gabrielmiguelok/linkhub/internal/feed"
	"github.com/gabrielmiguelok/linkhub/pkg/protocol"
)

type stubFetcher struct {
	posts []feed.Post
	err   error
}

func (f stubFetcher) Fetch(context.Context, string) ([]feed.Post, error) {
	return f.posts, f.err
}

func testSite(t *testing.T) *config.Site {
	t.Helper()
	public := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(public, "favicon.png"), []byte("png"), 0o644))

	site := config.Default()
	site.Build.PublicDir = public
	site.Features.SubscribeModal = true
	site.Blog.SubscribeURL = "https://news.example.com"
	site.Blog.Enabled = true
	site.Blog.FeedURL = "https://blog.example.com/feed"
	return site
}

func newTestServer(t *testing.T, site *config.Site, opts Options) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	opts.Site = site
	if opts.Feed == nil {
		opts.Feed = feed.NewService(stubFetcher{posts: []feed.Post{{ID: "1", Title: "Hello", Link: "https://blog.example.com/1"}}}, nil, 0, nil)
	}
	srv := httptest.NewServer(New(ctx, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, _ = io.Copy(&sb, resp.Body)
	return resp, sb.String()
}

func TestServer_RendersLivePage(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-live-view="/"`)
	assert.Contains(t, body, "Hello")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_Assets(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	resp, body := get(t, srv.URL+"/_live/linkhub.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "phx_join")

	resp, body = get(t, srv.URL+"/_linkhub/carousel.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "data-tool-stack")

	resp, body = get(t, srv.URL+"/favicon.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png", body)

	resp, _ = get(t, srv.URL+"/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_BasePath(t *testing.T) {
	site := testSite(t)
	site.Build.BasePath = "/links"
	srv := newTestServer(t, site, Options{})

	resp, body := get(t, srv.URL+"/links/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-live-socket="/links/_live/websocket"`)

	resp, _ = get(t, srv.URL+"/links/favicon.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	redirect, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	redirect.Body.Close()
	assert.Equal(t, http.StatusFound, redirect.StatusCode)
	assert.Equal(t, "/links/", redirect.Header.Get("Location"))
}

func TestServer_FeedAPI(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/feed", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://static.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var payload feedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Recent Blogs", payload.Title)
	require.Len(t, payload.Posts, 1)
	assert.Equal(t, "Hello", payload.Posts[0].Title)
}

func TestServer_FeedAPIFailureIsEmpty(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{
		Feed: feed.NewService(stubFetcher{err: errors.New("down")}, nil, 0, nil),
	})

	_, body := get(t, srv.URL+"/api/feed")
	assert.JSONEq(t, `{"title":"Recent Blogs","posts":[]}`, body)
}

func TestServer_FeedAPIDisabled(t *testing.T) {
	site := testSite(t)
	site.Blog.Enabled = false
	srv := newTestServer(t, site, Options{})

	resp, _ := get(t, srv.URL+"/api/feed")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"live_sockets"`)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{RateLimit: 0.001, RateBurst: 1})

	resp, _ := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_LiveGateRoundTrip(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/_live/websocket?vsn=2.0.0", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	send := func(raw string) {
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(raw)))
	}
	read := func() *protocol.Message {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		msg, err := protocol.PhoenixCodec{}.Decode(data)
		require.NoError(t, err)
		return msg
	}

	send(`["1","1","lv:/","phx_join",{"params":{"storage":{}}}]`)
	var unlocked bool
	join := read()
	for join.Event != protocol.EventReply {
		if join.Event == "js" {
			unlocked = true
		}
		join = read()
	}
	require.Equal(t, "ok", join.String("status"))
	assert.True(t, unlocked, "join releases any stale scroll lock")

	send(`["1","2","lv:/","open",{"id":"project-1"}]`)
	var sawModal, sawCommands bool
	for !(sawModal && sawCommands) {
		msg := read()
		switch msg.Event {
		case "js":
			sawCommands = true
		case protocol.EventDiff:
			slots, _ := msg.Payload["h"].(map[string]any)
			if html, ok := slots["modal"].(string); ok {
				assert.Contains(t, html, "STAY IN THE LOOP")
				sawModal = true
			}
		}
	}
}

func TestServer_LiveToolSelection(t *testing.T) {
	srv := newTestServer(t, testSite(t), Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/_live/websocket?vsn=2.0.0", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() *protocol.Message {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		msg, err := protocol.PhoenixCodec{}.Decode(data)
		require.NoError(t, err)
		return msg
	}

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`["1","1","lv:/","phx_join",{"params":{"storage":{}}}]`)))
	for read().Event != protocol.EventReply {
	}

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`["1","2","lv:/","select",{"index":"0"}]`)))
	for {
		msg := read()
		if msg.Event != protocol.EventDiff {
			continue
		}
		slots, _ := msg.Payload["h"].(map[string]any)
		html, ok := slots["tool"].(string)
		require.True(t, ok, "diff without the tool slot: %v", msg.Payload)
		assert.Contains(t, html, `data-tool-detail="0"`)
		return
	}
}
