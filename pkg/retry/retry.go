// Package retry runs operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrMaxRetriesExceeded is joined with the last error when every attempt failed.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter is the randomization factor (0-1).
	Jitter float64

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns the backoff used for outbound fetches.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   2,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Do calls fn until it succeeds, returns a permanent error, the context is
// done, or the retries run out.
func Do[T any](ctx context.Context, config *Config, fn func(context.Context) (T, error)) (T, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			return zero, perm.Err
		}
		if attempt == config.MaxRetries {
			break
		}

		delay := Backoff(attempt, config)
		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err, delay)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		case <-t.C:
		}
	}

	return zero, errors.Join(ErrMaxRetriesExceeded, lastErr)
}

// Backoff calculates the delay before retry number attempt+1.
func Backoff(attempt int, config *Config) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter > 0 {
		jitter := delay * config.Jitter
		delay = delay - jitter + (rand.Float64() * 2 * jitter)
	}
	return time.Duration(delay)
}

// PermanentError stops retrying.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}
