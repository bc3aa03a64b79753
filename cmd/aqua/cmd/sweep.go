package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqua-quant/aqua/backtest"
	"github.com/aqua-quant/aqua/internal/id"
	"github.com/aqua-quant/aqua/journal"
	"github.com/aqua-quant/aqua/risk"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		data      dataFlags
		strat     strategyFlags
		riskF     riskFlags
		journalF  journalFlags
		stopLoss  []float64
		maxRisk   []float64
		stopModes []string
		kelly     []bool
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Backtest every combination of a risk parameter grid",
		Long: `Sweep runs one independent backtest per combination of the grid flags over the
same series, in parallel, and prints one summary row per configuration in grid
order. Flags not swept take their value from the config file or risk flags.

Examples:
  aqua sweep --data prices.csv --stop-loss 0.02,0.05,0.1 --kelly=false,true
  aqua sweep --data closes.csv --strategy momentum --max-risk 0.01,0.02 --workers 4 --db runs.sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cfg := *a.cfg
			data.apply(fs, &cfg.Data)
			strat.apply(fs, &cfg.Data)
			journalF.apply(fs, &cfg.Journal)

			base := cfg.RiskConfig()
			riskF.apply(fs, &base)
			cfg.Risk = base
			cfg.Account.InitialCapital = base.InitialCapital
			if err := cfg.Validate(); err != nil {
				return err
			}

			series, source, err := loadSeries(cfg.Data)
			if err != nil {
				return err
			}

			configs := grid(base, stopLoss, maxRisk, stopModes, kelly)
			a.log.Info("sweep started", "configs", len(configs), "workers", workers, "steps", len(series))

			results, err := backtest.Sweep(cmd.Context(), series, configs, workers, backtest.WithLogger(a.log))
			if err != nil {
				return err
			}
			if err := backtest.PrintSweep(cmd.OutOrStdout(), results); err != nil {
				return err
			}

			created := time.Now().UTC()
			runs := make([]journal.Run, len(results))
			for i, res := range results {
				runs[i] = journal.FromResult(id.NewAt(created), journal.RunMeta{
					Strategy: source,
					Dataset:  cfg.Data.Path,
					Created:  created,
				}, res)
			}
			if err := recordRuns(cmd.Context(), cfg.Journal, runs...); err != nil {
				return err
			}
			if cfg.Journal.Type == "sqlite" || cfg.Journal.Type == "csv" {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %d runs\n", len(runs))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	data.register(fs)
	strat.register(fs)
	riskF.register(fs, "stop-loss", "max-risk", "stop-mode", "kelly")
	journalF.register(fs)
	fs.Float64SliceVar(&stopLoss, "stop-loss", nil, "fixed stop distances to sweep")
	fs.Float64SliceVar(&maxRisk, "max-risk", nil, "per-trade risk fractions to sweep")
	fs.StringSliceVar(&stopModes, "stop-mode", nil, "stop modes to sweep (fixed, atr)")
	fs.BoolSliceVar(&kelly, "kelly", nil, "Kelly settings to sweep")
	fs.IntVarP(&workers, "workers", "w", 0, "parallel runs (default GOMAXPROCS)")
	return cmd
}

// grid expands base over every combination of the swept values. An empty
// dimension keeps the base value.
func grid(base risk.Config, stopLoss, maxRisk []float64, stopModes []string, kelly []bool) []risk.Config {
	configs := []risk.Config{base}

	expand := func(n int, set func(c *risk.Config, i int)) {
		if n == 0 {
			return
		}
		next := make([]risk.Config, 0, len(configs)*n)
		for _, c := range configs {
			for i := 0; i < n; i++ {
				cc := c
				set(&cc, i)
				next = append(next, cc)
			}
		}
		configs = next
	}

	expand(len(stopLoss), func(c *risk.Config, i int) { c.StopLossPct = stopLoss[i] })
	expand(len(maxRisk), func(c *risk.Config, i int) { c.MaxRiskPerTrade = maxRisk[i] })
	expand(len(stopModes), func(c *risk.Config, i int) { c.StopMode = risk.StopMode(stopModes[i]) })
	expand(len(kelly), func(c *risk.Config, i int) { c.UseKelly = kelly[i] })
	return configs
}
