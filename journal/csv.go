package journal

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	tradeHeader  = []string{"run_id", "seq", "kind", "date", "price", "effective_price", "shares", "commission", "slippage", "cash", "pnl", "stop_loss_price", "target_price", "risk_reward", "sizing", "value_after"}
	equityHeader = []string{"run_id", "seq", "date", "value"}
)

// CSVJournal appends the trades and equity curves of recorded runs to two CSV
// files. Run summaries are not stored; use the SQLite journal for those.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}

	j := &CSVJournal{trades: csv.NewWriter(tf), equity: csv.NewWriter(ef), tf: tf, ef: ef}
	if err := j.trades.Write(tradeHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	if err := j.equity.Write(equityHeader); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(_ context.Context, run Run) error {
	if err := writeTrades(j.trades, run.Trades); err != nil {
		return err
	}
	return writeEquity(j.equity, run.Equity)
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

var _ Journal = (*CSVJournal)(nil)

// WriteTradesCSV writes trades with a header row.
func WriteTradesCSV(w io.Writer, trades []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	return writeTrades(cw, trades)
}

// WriteEquityCSV writes an equity curve with a header row.
func WriteEquityCSV(w io.Writer, points []EquityPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(equityHeader); err != nil {
		return err
	}
	return writeEquity(cw, points)
}

func writeTrades(cw *csv.Writer, trades []TradeRecord) error {
	for _, t := range trades {
		err := cw.Write([]string{
			t.RunID,
			strconv.Itoa(t.Seq),
			t.Kind,
			t.Date.Format(time.RFC3339),
			f(t.Price),
			f(t.EffPx),
			strconv.FormatInt(t.Shares, 10),
			money(t.Commission),
			money(t.Slippage),
			money(t.Cash),
			money(t.PnL),
			f(t.StopLoss),
			f(t.Target),
			f(t.RiskReward),
			t.Sizing,
			money(t.ValueAfter),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeEquity(cw *csv.Writer, points []EquityPoint) error {
	for _, p := range points {
		date := ""
		if !p.Date.IsZero() {
			date = p.Date.Format(time.RFC3339)
		}
		if err := cw.Write([]string{p.RunID, strconv.Itoa(p.Seq), date, money(p.Value)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// money renders a currency amount rounded half away from zero to cents.
func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
