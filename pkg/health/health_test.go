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

func fixed(status Status) CheckFunc {
	return func(ctx context.Context) Check {
		return Check{Status: status}
	}
}

func TestChecker_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(time.Second)
			for i, s := range tt.statuses {
				c.Register(string(rune('a'+i)), fixed(s))
			}
			resp := c.Liveness(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Len(t, resp.Checks, len(tt.statuses))
		})
	}
}

func TestChecker_ReadinessOnlyChecks(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("memory", fixed(StatusHealthy))
	c.RegisterReadiness("experiment", fixed(StatusDegraded))

	live := c.Liveness(context.Background())
	assert.Equal(t, StatusHealthy, live.Status)
	assert.NotContains(t, live.Checks, "experiment")

	ready := c.Readiness(context.Background())
	assert.Equal(t, StatusDegraded, ready.Status)
	require.Contains(t, ready.Checks, "experiment")
	assert.Equal(t, "experiment", ready.Checks["experiment"].Name, "empty names default to the registered name")
}

func TestChecker_TimeoutPropagates(t *testing.T) {
	c := NewChecker(20 * time.Millisecond)
	c.Register("database", DatabaseCheck(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	resp := c.Liveness(context.Background())
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks["database"].Message, "deadline")
}

func TestDatabaseCheck(t *testing.T) {
	ok := DatabaseCheck(func(context.Context) error { return nil })(context.Background())
	assert.Equal(t, StatusHealthy, ok.Status)

	bad := DatabaseCheck(func(context.Context) error { return errors.New("connection refused") })(context.Background())
	assert.Equal(t, StatusUnhealthy, bad.Status)
	assert.Equal(t, "connection refused", bad.Message)
}

func TestExperimentCheck(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		err         error
		want        Status
	}{
		{"not started", 0, 0, nil, StatusDegraded},
		{"running", 10, 60, nil, StatusDegraded},
		{"complete", 60, 60, nil, StatusHealthy},
		{"failed", 12, 60, errors.New("cancelled"), StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ExperimentCheck(func() (int, int, error) { return tt.done, tt.total, tt.err })(context.Background())
			assert.Equal(t, tt.want, check.Status)
			assert.Equal(t, tt.done, check.Details["trials_done"])
		})
	}
}

func TestMemoryCheck(t *testing.T) {
	check := MemoryCheck()(context.Background())
	assert.Equal(t, "memory", check.Name)
	assert.Contains(t, check.Details, "alloc_bytes")
	assert.NotEqual(t, StatusUnhealthy, check.Status)
}

func TestHandlers(t *testing.T) {
	c := NewChecker(time.Second)
	c.Register("memory", fixed(StatusHealthy))
	c.RegisterReadiness("experiment", fixed(StatusDegraded))

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusHealthy, resp.Status)

	rec = httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
