package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqua-quant/aqua/backtest"
	"github.com/aqua-quant/aqua/config"
	"github.com/aqua-quant/aqua/internal/id"
	"github.com/aqua-quant/aqua/journal"
)

func newBacktestCmd(a *app) *cobra.Command {
	var (
		data       dataFlags
		strat      strategyFlags
		riskF      riskFlags
		journalF   journalFlags
		showTrades bool
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run one backtest over a signal series",
		Long: `Backtest replays a daily series of closes and BUY/SELL/HOLD signals through a
single-symbol portfolio with position sizing, transaction costs and stop losses.

The series is read from CSV (date,close[,signal]) or Parquet. Use --strategy to
generate the signals instead of reading them from the file.

Examples:
  aqua backtest --data prices.csv
  aqua backtest --data closes.parquet --strategy sma --short 10 --long 30
  aqua backtest --data prices.csv --stop-mode atr --kelly --db runs.sqlite --org run.org --png equity.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			cfg := *a.cfg
			data.apply(fs, &cfg.Data)
			strat.apply(fs, &cfg.Data)
			journalF.apply(fs, &cfg.Journal)

			rc := cfg.RiskConfig()
			riskF.apply(fs, &rc)
			cfg.Risk = rc
			cfg.Account.InitialCapital = rc.InitialCapital
			if err := cfg.Validate(); err != nil {
				return err
			}

			series, source, err := loadSeries(cfg.Data)
			if err != nil {
				return err
			}

			res, err := backtest.New(rc, backtest.WithLogger(a.log)).Run(series)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			backtest.PrintResult(out, res)
			if showTrades {
				fmt.Fprintln(out)
				if err := backtest.PrintTrades(out, res.Trades); err != nil {
					return err
				}
			}

			run := journal.FromResult(id.New(), journal.RunMeta{
				Strategy:  source,
				Dataset:   cfg.Data.Path,
				Created:   time.Now().UTC(),
				OrgPath:   cfg.Journal.OrgPath,
				EquityPNG: cfg.Journal.EquityPNG,
			}, res)
			return storeRun(cmd, cfg, run)
		},
	}

	fs := cmd.Flags()
	data.register(fs)
	strat.register(fs)
	riskF.register(fs)
	journalF.register(fs)
	fs.BoolVar(&showTrades, "trades", false, "print the trade log")
	return cmd
}

// storeRun journals a single run and writes its reports.
func storeRun(cmd *cobra.Command, cfg config.Config, run journal.Run) error {
	out := cmd.OutOrStdout()
	jc := cfg.Journal

	if err := recordRuns(cmd.Context(), jc, run); err != nil {
		return err
	}
	switch jc.Type {
	case "sqlite":
		fmt.Fprintf(out, "✓ Recorded run %s in %s\n", run.Record.RunID, jc.DBPath)
	case "csv":
		fmt.Fprintf(out, "✓ Recorded run %s in %s and %s\n", run.Record.RunID, jc.TradesFile, jc.EquityFile)
	}

	if jc.OrgPath != "" {
		if err := journal.WriteRunOrg(jc.OrgPath, run.Record, run.Trades); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %s\n", jc.OrgPath)
	}
	if jc.EquityPNG != "" {
		title := fmt.Sprintf("%s %s", run.Record.Symbol, run.Record.Strategy)
		if err := journal.WriteEquityPNG(jc.EquityPNG, title, run.Equity); err != nil {
			return fmt.Errorf("write equity plot: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %s\n", jc.EquityPNG)
	}
	return nil
}
