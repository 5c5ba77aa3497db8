// Package compute splits per-frame work that is safe to run in parallel,
// such as independent rows of a cellular automaton step.
package compute

import (
	"runtime"
	"sync"
)

// Workers is the goroutine fan-out used by ParallelFor.
var Workers = runtime.NumCPU()

// ParallelFor executes fn over [0, n) in contiguous chunks. Ranges shorter
// than minChunk run on the calling goroutine. It returns after every chunk
// has finished.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := Workers
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
