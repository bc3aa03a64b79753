package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrRunNotFound is returned when a run id is not in the journal.
var ErrRunNotFound = errors.New("run not found")

// SQLiteJournal stores runs, their trades, rejections and equity curves in a
// single SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordRun stores a run and all of its rows in one transaction.
func (j *SQLiteJournal) RecordRun(ctx context.Context, run Run) error {
	cfg, err := json.Marshal(run.Record.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	r := run.Record
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, symbol, strategy, dataset, start_date, end_date, config,
		 initial_capital, final_capital, total_return_pct, sharpe_ratio, max_drawdown_pct, win_rate_pct,
		 total_trades, rejected_trades, stop_losses,
		 total_commission, total_slippage, total_costs, costs_pct,
		 round_trips, wins, losses, win_rate, avg_win, avg_loss, kelly_active,
		 org_path, equity_png)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbol, r.Strategy, r.Dataset, r.Start, r.End, string(cfg),
		r.InitialCapital, r.FinalCapital, r.TotalReturnPct, r.SharpeRatio, r.MaxDrawdownPct, r.WinRatePct,
		r.TotalTrades, r.RejectedTrades, r.StopLossesTriggered,
		r.Costs.TotalCommission, r.Costs.TotalSlippage, r.Costs.TotalCosts, r.Costs.CostsPct,
		r.Kelly.CompletedRoundTrips, r.Kelly.Wins, r.Kelly.Losses, r.Kelly.WinRate, r.Kelly.AvgWin, r.Kelly.AvgLoss, r.Kelly.KellyActive,
		r.OrgPath, r.EquityPNG,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	if err := insertTrades(ctx, tx, run.Trades); err != nil {
		return err
	}
	if err := insertRejections(ctx, tx, run.Rejections); err != nil {
		return err
	}
	if err := insertEquity(ctx, tx, run.Equity); err != nil {
		return err
	}

	return tx.Commit()
}

func insertTrades(ctx context.Context, tx *sql.Tx, trades []TradeRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(run_id, seq, kind, date, price, effective_price, shares, commission, slippage,
		 cash, pnl, stop_loss_price, target_price, risk_reward, sizing, value_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.RunID, t.Seq, t.Kind, t.Date, t.Price, t.EffPx, t.Shares, t.Commission, t.Slippage,
			t.Cash, t.PnL, t.StopLoss, t.Target, t.RiskReward, t.Sizing, t.ValueAfter,
		); err != nil {
			return fmt.Errorf("insert trade %d: %w", t.Seq, err)
		}
	}
	return nil
}

func insertRejections(ctx context.Context, tx *sql.Tx, rejections []RejectionRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rejections (run_id, seq, date, side, code, reason)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rejections {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Seq, r.Date, r.Side, r.Code, r.Reason); err != nil {
			return fmt.Errorf("insert rejection %d: %w", r.Seq, err)
		}
	}
	return nil
}

func insertEquity(ctx context.Context, tx *sql.Tx, points []EquityPoint) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO equity (run_id, seq, date, value)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.RunID, p.Seq, p.Date, p.Value); err != nil {
			return fmt.Errorf("insert equity %d: %w", p.Seq, err)
		}
	}
	return nil
}

// DeleteRun removes a run and, through the foreign keys, all of its rows.
func (j *SQLiteJournal) DeleteRun(ctx context.Context, runID string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
	}
	return nil
}

// ExportRunOrg loads a run with its trades and returns the Org report.
func (j *SQLiteJournal) ExportRunOrg(ctx context.Context, runID string) (string, error) {
	run, err := j.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	trades, err := j.ListTrades(ctx, runID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := RenderRunOrg(&b, run, trades); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ Journal = (*SQLiteJournal)(nil)
