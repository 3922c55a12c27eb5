package generate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultSamples is how many completions are drawn per prompt.
const DefaultSamples = 3

// DefaultWorkers caps how many generations run at once.
const DefaultWorkers = 4

// Sample draws n completions for the prompt, at most workers in flight.
// Results keep their draw order: out[i] is the i-th sample regardless of
// which finished first. The error is non-nil only when the context was
// cancelled; per-draw failures surface as sentinel strings from the runner.
func Sample(ctx context.Context, r Runner, prompt string, n, workers int) ([]string, error) {
	if n <= 0 {
		n = DefaultSamples
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]string, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			s, err := r.Generate(gctx, prompt)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
