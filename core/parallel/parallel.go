// Package parallel provides the small worker-pool helpers used by the
// silhouette evaluator (chunked loops) and the parameter sweep (one task per grid cell).
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous chunks, one per CPU core, and runs
// fn(start, end) for every chunk concurrently. It returns once every chunk is done.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeN(items, runtime.NumCPU(), fn)
}

// ParallelizeN is Parallelize with an explicit worker count.
func ParallelizeN(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > items {
		workers = items
	}

	// Ceiling division so every item lands in exactly one chunk
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when items
// does not exceed threshold, and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// ForEach runs fn(i) for every i in [0, items) on at most workers goroutines.
// Tasks are handed out in index order. When ctx is cancelled no further tasks
// are started and ctx.Err() is returned after in-flight tasks finish.
// workers < 1 means one worker per CPU core.
func ForEach(ctx context.Context, items, workers int, fn func(i int)) error {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				fn(i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < items; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	if err == nil {
		err = ctx.Err()
	}
	return err
}
