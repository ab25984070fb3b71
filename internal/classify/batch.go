package classify

import (
	"context"
	"sync"
)

// DefaultBatchWorkers bounds parallel classification when the caller does not
// choose a worker count.
const DefaultBatchWorkers = 4

// ClassifyBatch classifies inputs across up to workers goroutines and
// reassembles results in input order. A worker count of one or less, or a
// batch of one, degrades to the sequential path. On cancellation the partial
// work is discarded and the context error returned.
func (c *Classifier) ClassifyBatch(ctx context.Context, inputs []string, workers int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 || len(inputs) <= 1 {
		return c.ClassifyAll(inputs), nil
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]Result, len(inputs))
	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = c.Classify(inputs[idx])
			}
		}()
	}

dispatch:
	for idx := range inputs {
		select {
		case indexes <- idx:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
