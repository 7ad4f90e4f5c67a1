// Package newsletter dispatches subscriptions to the newsletter provider.
//
// Dispatch is fire-and-forget: callers never learn whether the provider
// accepted the address, and the gate grants access as soon as the request
// has been handed off.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabrielmiguelok/linkhub/pkg/logging"
)

// FormPath is the provider endpoint that accepts form posts without
// JavaScript.
const FormPath = "/api/v1/free"

// ErrNoEndpoint is returned when no subscribe URL is configured.
var ErrNoEndpoint = errors.New("newsletter: no subscribe url configured")

// FormAction returns the form action for a provider base URL:
// <base>/api/v1/free?nojs=true.
func FormAction(base string) (string, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "", ErrNoEndpoint
	}
	u, err := url.Parse(base + FormPath)
	if err != nil {
		return "", fmt.Errorf("newsletter: parse %q: %w", base, err)
	}
	q := u.Query()
	q.Set("nojs", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HTTPDispatcher posts subscriptions from the server in a detached
// goroutine. It is used when the visitor's browser cannot submit the form
// itself.
type HTTPDispatcher struct {
	action  string
	client  *http.Client
	logger  logging.Logger
	timeout time.Duration
	done    func(error)
}

// Option configures an HTTPDispatcher.
type Option func(*HTTPDispatcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *HTTPDispatcher) {
		d.client = c
	}
}

// WithLogger sets the logger that records dispatch outcomes.
func WithLogger(l logging.Logger) Option {
	return func(d *HTTPDispatcher) {
		d.logger = l
	}
}

// WithTimeout bounds each post.
func WithTimeout(t time.Duration) Option {
	return func(d *HTTPDispatcher) {
		d.timeout = t
	}
}

// WithDoneHook is called with the outcome of every post. Tests use it to
// observe the detached request.
func WithDoneHook(fn func(error)) Option {
	return func(d *HTTPDispatcher) {
		d.done = fn
	}
}

// NewHTTPDispatcher creates a dispatcher for the provider base URL.
func NewHTTPDispatcher(base string, opts ...Option) (*HTTPDispatcher, error) {
	action, err := FormAction(base)
	if err != nil {
		return nil, err
	}
	d := &HTTPDispatcher{
		action:  action,
		client:  http.DefaultClient,
		logger:  logging.NopLogger{},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Action returns the form action URL.
func (d *HTTPDispatcher) Action() string {
	return d.action
}

// Subscribe posts email without waiting for the result.
func (d *HTTPDispatcher) Subscribe(email string) {
	go func() {
		err := d.post(email)
		if err != nil {
			d.logger.Warn("newsletter dispatch failed", logging.Err(err))
		} else {
			d.logger.Debug("newsletter dispatched")
		}
		if d.done != nil {
			d.done(err)
		}
	}()
}

func (d *HTTPDispatcher) post(email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	form := url.Values{"email": {email}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.action, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("newsletter: provider returned %s", resp.Status)
	}
	return nil
}
