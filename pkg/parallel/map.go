package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrTaskPanic wraps a panic raised inside a mapped task
var ErrTaskPanic = errors.New("task panicked")

// MapIndexed calls fn for every index in [0, n) on a pool of the given size
// and returns the results in index order, whatever order the workers finish
// in. The first failing task cancels the context passed to the rest, and its
// error is returned.
func MapIndexed[T any](ctx context.Context, workers, n int, fn func(ctx context.Context, i int) (T, error), opts ...Option) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}
	if workers > n {
		workers = n
	}

	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]T, n)
	var (
		firstErr error
		errOnce  sync.Once
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < n; i++ {
		idx := i
		submitted := pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("%w: index %d: %v", ErrTaskPanic, idx, r))
				}
			}()

			v, err := fn(ctx, idx)
			if err != nil {
				fail(err)
				return
			}
			results[idx] = v
		})
		if !submitted {
			break
		}
	}

	pool.Close()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		// parent context cancelled before every task ran
		return nil, err
	}
	return results, nil
}
