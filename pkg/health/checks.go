package health

import (
	"context"
	"runtime"
)

// DatabaseCheck probes the results database
func DatabaseCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Name: "database"}

		if err := ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}

		return check
	}
}

// ExperimentCheck reports comparison progress. A comparison still running is
// degraded; a failed one is unhealthy.
func ExperimentCheck(progress func() (done, total int, err error)) CheckFunc {
	return func(ctx context.Context) Check {
		done, total, err := progress()
		check := Check{
			Name: "experiment",
			Details: map[string]any{
				"trials_done":  done,
				"trials_total": total,
			},
		}

		switch {
		case err != nil:
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		case total == 0 || done < total:
			check.Status = StatusDegraded
			check.Message = "Comparison in progress"
		default:
			check.Status = StatusHealthy
			check.Message = "Comparison complete"
		}

		return check
	}
}

// MemoryCheck reports heap usage relative to memory obtained from the OS
func MemoryCheck() CheckFunc {
	return func(ctx context.Context) Check {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": m.Alloc,
				"sys_bytes":   m.Sys,
			},
			Status:  StatusHealthy,
			Message: "Memory usage normal",
		}
		if m.Sys > 0 && float64(m.Alloc)/float64(m.Sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}
