// Package health reports whether the hub server and its backing services
// are usable.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status of a service.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds checks registered without a timeout.
const DefaultTimeout = 2 * time.Second

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Status     Status `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Report is the overall health status.
type Report struct {
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	timeout  time.Duration
	critical bool
}

// Checker runs registered checks concurrently.
type Checker struct {
	checks  []check
	version string
	mu      sync.RWMutex
}

// NewChecker creates a checker that reports version.
func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// AddCheck adds a check whose failure degrades the report.
func (hc *Checker) AddCheck(name string, fn CheckFunc, timeout time.Duration) {
	hc.add(check{name: name, fn: fn, timeout: timeout})
}

// AddCriticalCheck adds a check whose failure makes the report unhealthy.
func (hc *Checker) AddCriticalCheck(name string, fn CheckFunc, timeout time.Duration) {
	hc.add(check{name: name, fn: fn, timeout: timeout, critical: true})
}

func (hc *Checker) add(c check) {
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks = append(hc.checks, c)
}

// Check runs all checks and returns the combined report.
func (hc *Checker) Check(ctx context.Context) Report {
	hc.mu.RLock()
	checks := make([]check, len(hc.checks))
	copy(checks, hc.checks)
	hc.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now().UTC(),
		Version:   hc.version,
	}

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(ctx, c)
		}()
	}
	wg.Wait()

	for i, c := range checks {
		r := results[i]
		report.Checks[c.name] = r
		if r.Status == StatusHealthy {
			continue
		}
		if c.critical {
			report.Status = StatusUnhealthy
		} else if report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}
	return report
}

func run(ctx context.Context, c check) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.fn(ctx)
	result := CheckResult{
		Status:     StatusHealthy,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	return result
}

// Handler serves the report as JSON. Unhealthy reports get 503.
func (hc *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := hc.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(report)
	})
}

// SocketCapacityCheck fails once count reaches max live sockets.
func SocketCapacityCheck(count func() int, max int) CheckFunc {
	return func(ctx context.Context) error {
		if n := count(); max > 0 && n >= max {
			return fmt.Errorf("live sockets at capacity: %d/%d", n, max)
		}
		return nil
	}
}
