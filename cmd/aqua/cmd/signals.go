package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aqua-quant/aqua/market"
)

func newSignalsCmd(a *app) *cobra.Command {
	var (
		data  dataFlags
		strat strategyFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "Label a close series with strategy signals",
		Long: `Signals runs a strategy over a close series and writes the series with its
BUY/SELL/HOLD signals, ready for aqua backtest. The output format follows the
--out extension (.csv or .parquet); without --out CSV goes to stdout.

Examples:
  aqua signals --data closes.csv --strategy sma --out labeled.parquet
  aqua signals --data closes.csv --strategy mean-reversion --window 30 --num-std 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			dc := a.cfg.Data
			data.apply(fs, &dc)
			strat.apply(fs, &dc)
			if dc.Strategy == "" {
				return fmt.Errorf("no strategy: set --strategy or data.strategy")
			}

			series, name, err := loadSeries(dc)
			if err != nil {
				return err
			}

			if out == "" {
				return market.WriteCSV(cmd.OutOrStdout(), series)
			}
			if err := writeSeries(out, series); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			var buys, sells int
			for _, st := range series {
				switch st.Signal {
				case market.Buy:
					buys++
				case market.Sell:
					sells++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Labeled %d steps with %s (%d buy, %d sell): %s\n", len(series), name, buys, sells, out)
			return nil
		},
	}

	fs := cmd.Flags()
	data.register(fs)
	strat.register(fs)
	fs.StringVarP(&out, "out", "o", "", "output file (.csv or .parquet)")
	return cmd
}

func writeSeries(path string, s market.Series) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return market.WriteParquet(path, s)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := market.WriteCSV(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
