// Package health reports whether a simulation process is alive and whether
// its experiment and persistence layers are ready.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// worse reports whether s is more severe than other
func (s Status) worse(other Status) bool {
	rank := map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}
	return rank[s] > rank[other]
}

// Check is the result of one probe
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ms"`
}

// CheckFunc performs a health check
type CheckFunc func(ctx context.Context) Check

// Response is the aggregated result; the worst check decides Status
type Response struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    float64          `json:"uptime_seconds"`
}

type registered struct {
	fn        CheckFunc
	readiness bool
}

// Checker runs registered checks. Liveness runs every non-readiness check;
// readiness runs all of them.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]registered
	started time.Time
	timeout time.Duration
}

// NewChecker creates a checker whose probes each get timeout to finish
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		checks:  make(map[string]registered),
		started: time.Now(),
		timeout: timeout,
	}
}

// Register adds a liveness check
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = registered{fn: fn}
}

// RegisterReadiness adds a check that only gates readiness
func (c *Checker) RegisterReadiness(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = registered{fn: fn, readiness: true}
}

// Liveness runs the liveness checks
func (c *Checker) Liveness(ctx context.Context) Response {
	return c.run(ctx, false)
}

// Readiness runs every check
func (c *Checker) Readiness(ctx context.Context) Response {
	return c.run(ctx, true)
}

func (c *Checker) run(ctx context.Context, readiness bool) Response {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name, r := range c.checks {
		if readiness || !r.readiness {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	fns := make([]CheckFunc, len(names))
	for i, name := range names {
		fns[i] = c.checks[name].fn
	}
	c.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(names)),
		Uptime:    time.Since(c.started).Seconds(),
	}

	for i, name := range names {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		check := fns[i](cctx)
		cancel()

		if check.Name == "" {
			check.Name = name
		}
		check.Duration = time.Since(start)
		check.LastChecked = start
		response.Checks[name] = check

		if check.Status.worse(response.Status) {
			response.Status = check.Status
		}
	}

	return response
}

// LivenessHandler serves Liveness as JSON
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return c.handler(c.Liveness)
}

// ReadinessHandler serves Readiness as JSON. Degraded is not ready.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return c.handler(c.Readiness)
}

func (c *Checker) handler(probe func(context.Context) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := probe(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if response.Status == StatusHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		json.NewEncoder(w).Encode(response)
	}
}
