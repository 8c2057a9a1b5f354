package enrich

import (
	"context"
	"sync"
)

// outcome is the result-or-failure of one operation in a join.
type outcome[T any] struct {
	value T
	err   error
}

// joinAll runs fn once per index on a bounded worker pool and waits
// for every operation to finish. Outcomes are returned in index order
// regardless of completion order. workers <= 0 runs one worker per
// operation.
func joinAll[T any](ctx context.Context, n, workers int, fn func(ctx context.Context, i int) (T, error)) []outcome[T] {
	results := make([]outcome[T], n)
	if n == 0 {
		return results
	}

	if workers <= 0 || workers > n {
		workers = n
	}

	indexCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				value, err := fn(ctx, i)
				results[i] = outcome[T]{value: value, err: err}
			}
		}()
	}

	dispatched := 0
	for ; dispatched < n; dispatched++ {
		if ctx.Err() != nil {
			break
		}
		indexCh <- dispatched
	}
	close(indexCh)
	wg.Wait()

	// Operations never handed to a worker still need a failure outcome.
	for i := dispatched; i < n; i++ {
		results[i] = outcome[T]{err: ctx.Err()}
	}

	return results
}
