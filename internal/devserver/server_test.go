package devserver

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmiguelok/linkhub/internal/config"
)

func writeSite(t *testing.T, path, title string, mod time.Time) {
	t.Helper()
	site := config.Default()
	site.Metadata.Title = title
	require.NoError(t, config.Write(path, site, true))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func newWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkhub.toml")
	writeSite(t, path, "First", time.Now().Add(-time.Hour))

	site, err := config.Load(path)
	require.NoError(t, err)
	return New(&Config{Path: path, Interval: time.Millisecond}, site), path
}

func TestWatcher_ReloadsChangedSite(t *testing.T) {
	w, path := newWatcher(t)
	assert.False(t, w.Check())

	writeSite(t, path, "Second", time.Now())
	assert.True(t, w.Check())
	assert.Equal(t, "Second", w.Site().Metadata.Title)
	assert.NoError(t, w.Err())
	assert.False(t, w.Check())
}

func TestWatcher_KeepsSiteOnBadReload(t *testing.T) {
	w, path := newWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("not = [toml"), 0o644))
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now()))

	assert.True(t, w.Check())
	assert.Error(t, w.Err())
	assert.Equal(t, "First", w.Site().Metadata.Title)
}

func TestWatcher_HandlerStreamsReload(t *testing.T) {
	w, path := newWatcher(t)
	srv := httptest.NewServer(w.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "data: connected", lines.Text())

	require.Eventually(t, func() bool { return w.Clients() == 1 }, time.Second, 5*time.Millisecond)
	writeSite(t, path, "Second", time.Now())
	require.True(t, w.Check())

	for lines.Scan() {
		if lines.Text() == "data: reload" {
			return
		}
	}
	t.Fatal("no reload event received")
}
