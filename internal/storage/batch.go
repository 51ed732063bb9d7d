package storage

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// BatchDeleter removes many objects in parallel with bounded concurrency.
type BatchDeleter struct {
	storage     ObjectStorage
	concurrency int
}

// BatchResult contains the outcome of a batch operation.
type BatchResult struct {
	Deleted []string
	Errors  map[string]error
}

// NewBatchDeleter creates a new batch deleter.
// concurrency: maximum number of parallel deletes (values below 1 mean 1)
func NewBatchDeleter(storage ObjectStorage, concurrency int) *BatchDeleter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BatchDeleter{
		storage:     storage,
		concurrency: concurrency,
	}
}

// Delete removes every object in objectPaths. Failures are reported per path
// in the result; the returned error is only set when nothing could be tried.
func (b *BatchDeleter) Delete(ctx context.Context, objectPaths []string) (*BatchResult, error) {
	result := &BatchResult{
		Errors: make(map[string]error),
	}
	if len(objectPaths) == 0 {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sem := semaphore.NewWeighted(int64(b.concurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range objectPaths {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			result.Errors[p] = fmt.Errorf("semaphore acquire failed: %w", err)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(path string) {
			defer sem.Release(1)
			defer wg.Done()

			err := b.storage.Delete(ctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[path] = err
				return
			}
			result.Deleted = append(result.Deleted, path)
		}(p)
	}

	wg.Wait()
	return result, nil
}
