package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aqua-quant/aqua/config"
	"github.com/aqua-quant/aqua/internal/logging"
)

// app holds the state shared by every subcommand once the root command has
// loaded the configuration.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCmd builds the aqua command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "aqua",
		Short: "Backtest and risk-management engine for daily trading signals",
		Long: `Aqua replays a daily price series carrying BUY/SELL/HOLD signals through a
single-symbol portfolio and reports risk-adjusted performance.

It provides tools for:
  - Backtesting signal series with position sizing and stop losses
  - Sweeping risk parameters over the same series in parallel
  - Generating signals from SMA, mean-reversion and momentum strategies
  - Journaling runs to SQLite or CSV with Org-mode and PNG reports`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or text (overrides config)")

	root.AddCommand(
		newBacktestCmd(a),
		newSweepCmd(a),
		newSignalsCmd(a),
		newConfigCmd(),
		newJournalCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(a.cfgPath); err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	logging.SetDefault(a.log)
	return nil
}
