package backend

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/quanta/pkg/types"
)

// SweepResult pairs one request of a sweep with its outcome.
type SweepResult struct {
	Request ExecutionRequest
	Result  types.ExecutionResult
	Err     error
}

// RunSweep executes independent requests concurrently on up to workers
// goroutines, each owning its own request, sharing only the read-only
// registry. Results are returned in request order. Cancelling the context
// stops unstarted requests, which report the context error; requests
// already in flight finish or abort per their backend's cancellation
// handling.
func (m *Manager) RunSweep(ctx context.Context, reqs []ExecutionRequest, workers int) []SweepResult {
	results := make([]SweepResult, len(reqs))
	if len(reqs) == 0 {
		return results
	}
	if workers <= 0 || workers > len(reqs) {
		workers = len(reqs)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				req := reqs[i]
				if err := ctx.Err(); err != nil {
					results[i] = SweepResult{Request: req, Err: err}
					continue
				}
				res, err := m.Run(ctx, req)
				results[i] = SweepResult{Request: req, Result: res, Err: err}
			}
		}()
	}

	for i := range reqs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}
