// Package parallel runs independent per-index work on several goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 256,
	}
}

// For calls f(i) for every i in [0, n). f must only touch state owned by
// index i.
//
// Work is split into contiguous chunks, one goroutine each. Small inputs and
// disabled configs run sequentially. The returned error is the one from the
// lowest failing index, so the result does not depend on scheduling. A chunk
// stops at its first failure; other chunks run to completion.
func For(n int, f func(i int) error, cfg Config) error {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	chunks := (n + chunkSize - 1) / chunkSize
	errs := make([]error, chunks)

	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			end := min((c+1)*chunkSize, n)
			for i := c * chunkSize; i < end; i++ {
				if err := f(i); err != nil {
					errs[c] = err
					return
				}
			}
		}(c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
