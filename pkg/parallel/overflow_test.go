package parallel

import (
	"errors"
	"math"
	"testing"
)

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

func TestWorkerPoolSizes(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{1, 1},
		{8, 8},
		{1000, 1000},
		{0, 1},
		{-5, 1},
	}

	for _, tt := range tests {
		pool, err := NewWorkerPool(tt.requested)
		if err != nil {
			t.Fatalf("NewWorkerPool(%d) failed: %v", tt.requested, err)
		}
		if pool.Workers() != tt.want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.requested, pool.Workers(), tt.want)
		}
		if cap(pool.taskQueue) != tt.want*2 {
			t.Errorf("Expected buffer capacity %d, got %d", tt.want*2, cap(pool.taskQueue))
		}
		pool.Close()
	}
}
