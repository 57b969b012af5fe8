package dynamo

import (
	"runtime"
	"sync"
)

// RowChunk is the smallest number of rows handed to a single worker.
// Ranges at or below it run inline on the caller's goroutine.
const RowChunk = 32

// ParallelFor executes fn over [0, n) split into contiguous chunks and
// returns once every chunk has completed. Chunks never overlap, so fn may
// write index i of any buffer without locking. Only the inline path is free
// of allocations; each fan-out starts fresh goroutines.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
