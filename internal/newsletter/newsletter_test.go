package newsletter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormAction(t *testing.T) {
	got, err := FormAction("https://example.substack.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.substack.com/api/v1/free?nojs=true", got)

	_, err = FormAction("  ")
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestHTTPDispatcher_PostsEmailWithoutBlocking(t *testing.T) {
	release := make(chan struct{})
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, FormPath, r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("nojs"))
		assert.NoError(t, r.ParseForm())
		received <- r.PostForm.Get("email")
	}))
	defer srv.Close()

	done := make(chan error, 1)
	d, err := NewHTTPDispatcher(srv.URL, WithDoneHook(func(err error) { done <- err }))
	require.NoError(t, err)

	start := time.Now()
	d.Subscribe("a@b.com")
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(release)
	select {
	case email := <-received:
		assert.Equal(t, "a@b.com", email)
	case <-time.After(5 * time.Second):
		t.Fatal("provider never received the subscription")
	}
	require.NoError(t, <-done)
}

func TestHTTPDispatcher_ProviderErrorIsOnlyReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	done := make(chan error, 1)
	d, err := NewHTTPDispatcher(srv.URL, WithDoneHook(func(err error) { done <- err }))
	require.NoError(t, err)

	d.Subscribe("rejected@b.com")
	select {
	case err := <-done:
		assert.ErrorContains(t, err, "400")
	case <-time.After(5 * time.Second):
		t.Fatal("dispatch never finished")
	}
}
