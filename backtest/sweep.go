package backtest

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aqua-quant/aqua/market"
	"github.com/aqua-quant/aqua/risk"
)

// Sweep runs one independent backtest per config over the same series, at
// most workers at a time, and returns the results in config order. Each run
// owns its own portfolio; the series is only read. Cancelling ctx stops new
// runs from starting; a run already started finishes.
func Sweep(ctx context.Context, series market.Series, configs []risk.Config, workers int, opts ...Option) ([]Result, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(configs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range configs {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := New(cfg, opts...).Run(series)
			if err != nil {
				return fmt.Errorf("config %d (%s): %w", i, cfg.Symbol, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
