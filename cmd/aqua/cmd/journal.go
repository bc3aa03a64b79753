package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqua-quant/aqua/config"
	"github.com/aqua-quant/aqua/journal"
)

func newJournalCmd(a *app) *cobra.Command {
	var dbPath string

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Query stored backtest runs",
		Long: `Query and export runs recorded in the SQLite journal.

Subcommands:
  runs    - List recorded runs, newest first
  show    - Print a run summary and its trades
  export  - Render a run as an Org-mode report
  day     - List fills dated on a specific day
  rm      - Delete a run

Examples:
  aqua journal runs --limit 10
  aqua journal show 01HZY3J6W8K5V2
  aqua journal export 01HZY3J6W8K5V2 -o run.org
  aqua journal day 2024-01-15`,
	}
	journalCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite journal path (default from config)")

	open := func() (*journal.SQLiteJournal, error) {
		path := dbPath
		if path == "" {
			path = a.cfg.Journal.DBPath
		}
		if path == "" {
			return nil, fmt.Errorf("no journal database: set --db or journal.db_path")
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	var limit int
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}
	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a run summary and its trades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			ctx := cmd.Context()
			run, err := j.GetRun(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get run: %w", err)
			}
			trades, err := j.ListTrades(ctx, args[0])
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}
			rejections, err := j.ListRejections(ctx, args[0])
			if err != nil {
				return fmt.Errorf("list rejections: %w", err)
			}

			out := cmd.OutOrStdout()
			printRunSummary(out, run)
			for _, rj := range rejections {
				fmt.Fprintf(out, "  rejected %s %s %s: %s\n", rj.Date.UTC().Format(time.DateOnly), rj.Side, rj.Code, rj.Reason)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, journal.FormatTradesOrg(trades))
			return nil
		},
	}

	var exportOut string
	exportCmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Render a run as an Org-mode report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			org, err := j.ExportRunOrg(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("export run: %w", err)
			}
			if exportOut == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), org)
				return err
			}
			if err := os.WriteFile(exportOut, []byte(org), 0644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", exportOut)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")

	dayCmd := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List fills dated on a specific day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			start, end, err := dayBounds(time.UTC, args[0])
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}
			recs, err := j.ListTradesBetween(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a run and its trades",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			if err := j.DeleteRun(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete run: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted run %s\n", args[0])
			return nil
		},
	}

	journalCmd.AddCommand(runsCmd, showCmd, exportCmd, dayCmd, rmCmd)
	return journalCmd
}

// openJournal returns the configured journal, or nil when journaling is off.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	default:
		return nil, nil
	}
}

// recordRuns stores runs in the configured journal.
func recordRuns(ctx context.Context, jc config.JournalConfig, runs ...journal.Run) (err error) {
	j, err := openJournal(jc)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j == nil {
		return nil
	}
	defer func() {
		if cerr := j.Close(); err == nil {
			err = cerr
		}
	}()

	for _, run := range runs {
		if err := j.RecordRun(ctx, run); err != nil {
			return fmt.Errorf("record run %s: %w", run.Record.RunID, err)
		}
	}
	return nil
}

func printRuns(w io.Writer, runs []journal.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tSYMBOL\tSTRATEGY\tRETURN\tSHARPE\tMAX DD\tTRADES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\t%.2f\t%.2f%%\t%d\n",
			r.RunID, r.Created.Local().Format(time.DateTime), r.Symbol, r.Strategy,
			r.TotalReturnPct, r.SharpeRatio, r.MaxDrawdownPct, r.TotalTrades)
	}
	return tw.Flush()
}

func printRunSummary(w io.Writer, r journal.RunRecord) {
	fmt.Fprintf(w, "Run %s (%s, %s)\n", r.RunID, r.Symbol, r.Strategy)
	fmt.Fprintf(w, "  Dataset: %s\n", r.Dataset)
	fmt.Fprintf(w, "  Period: %s to %s\n", r.Start.UTC().Format(time.DateOnly), r.End.UTC().Format(time.DateOnly))
	fmt.Fprintf(w, "  Capital: $%.2f -> $%.2f (%.2f%%)\n", r.InitialCapital, r.FinalCapital, r.TotalReturnPct)
	fmt.Fprintf(w, "  Sharpe: %.2f  Max DD: %.2f%%  Win rate: %.1f%%\n", r.SharpeRatio, r.MaxDrawdownPct, r.WinRatePct)
	fmt.Fprintf(w, "  Trades: %d  Rejected: %d  Stop losses: %d\n", r.TotalTrades, r.RejectedTrades, r.StopLossesTriggered)
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}
