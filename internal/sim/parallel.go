package sim

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/odelab/internal/dynamo"
	"github.com/san-kum/odelab/internal/integrators"
)

// Ensemble integrates one system from many initial states at once, for
// drawing several orbits in the same phase portrait. Derive must be safe
// for concurrent use, which holds for every model since they are pure.
type Ensemble struct {
	sys     dynamo.System
	cfg     Config
	workers int
}

// NewEnsemble runs at most runtime.NumCPU() integrations at a time.
func NewEnsemble(sys dynamo.System, cfg Config) *Ensemble {
	return &Ensemble{sys: sys, cfg: cfg, workers: runtime.NumCPU()}
}

// SetWorkers bounds the number of concurrent integrations; n < 1 means one.
func (e *Ensemble) SetWorkers(n int) *Ensemble {
	e.workers = max(n, 1)
	return e
}

// Run returns one result per initial state, in input order.
func (e *Ensemble) Run(ctx context.Context, starts []dynamo.State) ([]*Result, error) {
	results := make([]*Result, len(starts))
	errs := make([]error, len(starts))

	workers := min(e.workers, len(starts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			// RK4 keeps scratch buffers, so each worker gets its own.
			s := New(e.sys, integrators.NewRK4())
			for idx := range jobs {
				results[idx], errs[idx] = s.Run(ctx, starts[idx], e.cfg)
			}
		}()
	}

	for i := range starts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Starts spreads n initial states evenly across the region diagonal,
// skipping the corners.
func Starts(region dynamo.Region, n int) []dynamo.State {
	out := make([]dynamo.State, 0, n)
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n+1)
		out = append(out, dynamo.State{
			region.XMin + f*(region.XMax-region.XMin),
			region.YMin + f*(region.YMax-region.YMin),
		})
	}
	return out
}
