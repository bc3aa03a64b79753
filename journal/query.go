package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const runColumns = `
	run_id, created, symbol, strategy, dataset, start_date, end_date, config,
	initial_capital, final_capital, total_return_pct, sharpe_ratio, max_drawdown_pct, win_rate_pct,
	total_trades, rejected_trades, stop_losses,
	total_commission, total_slippage, total_costs, costs_pct,
	round_trips, wins, losses, win_rate, avg_win, avg_loss, kelly_active,
	org_path, equity_png`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		r   RunRecord
		cfg string
	)
	err := s.Scan(
		&r.RunID, &r.Created, &r.Symbol, &r.Strategy, &r.Dataset, &r.Start, &r.End, &cfg,
		&r.InitialCapital, &r.FinalCapital, &r.TotalReturnPct, &r.SharpeRatio, &r.MaxDrawdownPct, &r.WinRatePct,
		&r.TotalTrades, &r.RejectedTrades, &r.StopLossesTriggered,
		&r.Costs.TotalCommission, &r.Costs.TotalSlippage, &r.Costs.TotalCosts, &r.Costs.CostsPct,
		&r.Kelly.CompletedRoundTrips, &r.Kelly.Wins, &r.Kelly.Losses, &r.Kelly.WinRate,
		&r.Kelly.AvgWin, &r.Kelly.AvgLoss, &r.Kelly.KellyActive,
		&r.OrgPath, &r.EquityPNG,
	)
	if err != nil {
		return RunRecord{}, err
	}
	if err := json.Unmarshal([]byte(cfg), &r.Config); err != nil {
		return RunRecord{}, fmt.Errorf("decode config of run %s: %w", r.RunID, err)
	}
	return r, nil
}

// GetRun returns the summary of a single run.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first. A limit of 0 or less returns
// all runs.
func (j *SQLiteJournal) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+`
		FROM runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTrades returns a run's fills in execution order.
func (j *SQLiteJournal) ListTrades(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, kind, date, price, effective_price, shares, commission, slippage,
		       cash, pnl, stop_loss_price, target_price, risk_reward, sizing, value_after
		FROM trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.RunID, &t.Seq, &t.Kind, &t.Date, &t.Price, &t.EffPx, &t.Shares, &t.Commission, &t.Slippage,
			&t.Cash, &t.PnL, &t.StopLoss, &t.Target, &t.RiskReward, &t.Sizing, &t.ValueAfter,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesBetween returns fills of every run dated within [start, end).
func (j *SQLiteJournal) ListTradesBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, kind, date, price, effective_price, shares, commission, slippage,
		       cash, pnl, stop_loss_price, target_price, risk_reward, sizing, value_after
		FROM trades
		WHERE date >= ? AND date < ?
		ORDER BY date ASC, run_id ASC, seq ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.RunID, &t.Seq, &t.Kind, &t.Date, &t.Price, &t.EffPx, &t.Shares, &t.Commission, &t.Slippage,
			&t.Cash, &t.PnL, &t.StopLoss, &t.Target, &t.RiskReward, &t.Sizing, &t.ValueAfter,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRejections returns a run's rejected signals in order.
func (j *SQLiteJournal) ListRejections(ctx context.Context, runID string) ([]RejectionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, date, side, code, reason
		FROM rejections
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RejectionRecord
	for rows.Next() {
		var r RejectionRecord
		if err := rows.Scan(&r.RunID, &r.Seq, &r.Date, &r.Side, &r.Code, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns a run's equity curve in step order.
func (j *SQLiteJournal) ListEquity(ctx context.Context, runID string) ([]EquityPoint, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, seq, date, value
		FROM equity
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var p EquityPoint
		if err := rows.Scan(&p.RunID, &p.Seq, &p.Date, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
