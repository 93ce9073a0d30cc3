package dynamo

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		n, workers, minChunk int
	}{
		{0, 4, 8},
		{7, 4, 8},
		{100, 4, 8},
		{101, 3, 1},
		{1000, 0, 16},
	}

	for _, tt := range tests {
		hits := make([]int32, tt.n)
		ParallelFor(tt.n, tt.workers, tt.minChunk, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, h)
			}
		}
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.03, Wrapped: ErrInvalidState}

	if !errors.Is(err, ErrInvalidState) {
		t.Error("expected SimulationError to unwrap to ErrInvalidState")
	}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}
