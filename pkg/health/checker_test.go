package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestCheck_AllPass(t *testing.T) {
	hc := NewChecker("1.0.0")
	hc.AddCheck("feed_cache", ok, time.Second)
	hc.AddCriticalCheck("public_dir", ok, time.Second)

	report := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, report.Status)
	assert.Len(t, report.Checks, 2)
	assert.Equal(t, "1.0.0", report.Version)
}

func TestCheck_NonCriticalFailureDegrades(t *testing.T) {
	hc := NewChecker("")
	hc.AddCheck("feed_cache", func(context.Context) error {
		return errors.New("redis unreachable")
	}, time.Second)
	hc.AddCriticalCheck("public_dir", ok, time.Second)

	report := hc.Check(context.Background())

	assert.Equal(t, StatusDegraded, report.Status)
	assert.Equal(t, "redis unreachable", report.Checks["feed_cache"].Error)
}

func TestCheck_CriticalFailure(t *testing.T) {
	hc := NewChecker("")
	hc.AddCriticalCheck("public_dir", func(context.Context) error {
		return errors.New("missing")
	}, time.Second)

	assert.Equal(t, StatusUnhealthy, hc.Check(context.Background()).Status)
}

func TestCheck_Timeout(t *testing.T) {
	hc := NewChecker("")
	hc.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	report := hc.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Checks["slow"].Status)
	assert.Contains(t, report.Checks["slow"].Error, "deadline")
}

func TestHandler(t *testing.T) {
	hc := NewChecker("dev")
	hc.AddCriticalCheck("public_dir", func(context.Context) error {
		return errors.New("missing")
	}, time.Second)

	rec := httptest.NewRecorder()
	hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusUnhealthy, report.Status)
}

func TestSocketCapacityCheck(t *testing.T) {
	n := 3
	check := SocketCapacityCheck(func() int { return n }, 5)
	assert.NoError(t, check(context.Background()))

	n = 5
	assert.Error(t, check(context.Background()))

	assert.NoError(t, SocketCapacityCheck(func() int { return 99 }, 0)(context.Background()))
}
