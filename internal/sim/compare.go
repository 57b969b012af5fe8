package sim

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/integrators"
)

// Comparison describes one initial condition run under several solvers.
type Comparison struct {
	Kinds     []integrators.Kind
	Thetas    []float64
	ThetaDots []float64
	Config    Config
	Options   []Option

	// Metrics, when set, builds fresh metrics for each chain.
	Metrics func(c *Chain) []dynamo.Metric
}

// Compare runs one chain per solver kind concurrently. Results come back in
// the order of cmp.Kinds. A run that diverges keeps its partial result with
// Err set. Construction errors and cancellation abort the whole comparison.
func Compare(ctx context.Context, cmp Comparison) ([]*Result, error) {
	if len(cmp.Kinds) == 0 {
		return nil, errors.New("compare: no solvers given")
	}
	if err := validateConfig(cmp.Config); err != nil {
		return nil, err
	}

	chains := make([]*Chain, len(cmp.Kinds))
	for i, kind := range cmp.Kinds {
		c, err := New(cmp.Thetas, cmp.ThetaDots, kind, cmp.Options...)
		if err != nil {
			return nil, err
		}
		chains[i] = c
	}

	results := make([]*Result, len(chains))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range chains {
		g.Go(func() error {
			s := NewSimulator(c)
			if cmp.Metrics != nil {
				for _, m := range cmp.Metrics(c) {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, cmp.Config)
			results[i] = res
			if err != nil && !errors.Is(err, dynamo.ErrInvalidState) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
