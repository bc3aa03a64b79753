package journal

import (
	"context"
	"time"

	"github.com/aqua-quant/aqua/backtest"
	"github.com/aqua-quant/aqua/risk"
)

// RunRecord is the summary row of one stored backtest run.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Symbol   string
	Strategy string
	Dataset  string

	Start time.Time
	End   time.Time

	Config risk.Config

	InitialCapital      float64
	FinalCapital        float64
	TotalReturnPct      float64
	SharpeRatio         float64
	MaxDrawdownPct      float64
	WinRatePct          float64
	TotalTrades         int
	RejectedTrades      int
	StopLossesTriggered int

	Costs backtest.CostsSummary
	Kelly risk.KellyStats

	OrgPath   string
	EquityPNG string
}

// NetPL is the change in total value over the run.
func (r RunRecord) NetPL() float64 { return r.FinalCapital - r.InitialCapital }

// TradeRecord is one fill of a stored run. Cash is the amount debited for a
// buy or credited for an exit. Buy-only and exit-only fields are zero on the
// other kind.
type TradeRecord struct {
	RunID  string
	Seq    int
	Kind   string
	Date   time.Time
	Price  float64
	EffPx  float64
	Shares int64

	Commission float64
	Slippage   float64
	Cash       float64
	PnL        float64

	StopLoss   float64
	Target     float64
	RiskReward float64
	Sizing     string

	ValueAfter float64
}

type RejectionRecord struct {
	RunID  string
	Seq    int
	Date   time.Time
	Side   string
	Code   string
	Reason string
}

type EquityPoint struct {
	RunID string
	Seq   int
	Date  time.Time
	Value float64
}

// Run is everything stored for one backtest.
type Run struct {
	Record     RunRecord
	Trades     []TradeRecord
	Rejections []RejectionRecord
	Equity     []EquityPoint
}

// RunMeta describes where a result came from.
type RunMeta struct {
	Strategy  string
	Dataset   string
	Created   time.Time
	OrgPath   string
	EquityPNG string
}

// FromResult flattens a backtest result into storable records.
func FromResult(runID string, meta RunMeta, res backtest.Result) Run {
	created := meta.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	run := Run{
		Record: RunRecord{
			RunID:               runID,
			Created:             created,
			Symbol:              res.Config.Symbol,
			Strategy:            meta.Strategy,
			Dataset:             meta.Dataset,
			Start:               res.Start(),
			End:                 res.End(),
			Config:              res.Config,
			InitialCapital:      res.InitialCapital,
			FinalCapital:        res.FinalCapital,
			TotalReturnPct:      res.TotalReturnPct,
			SharpeRatio:         res.SharpeRatio,
			MaxDrawdownPct:      res.MaxDrawdownPct,
			WinRatePct:          res.WinRatePct,
			TotalTrades:         res.TotalTrades,
			RejectedTrades:      res.RejectedTrades,
			StopLossesTriggered: res.StopLossesTriggered,
			Costs:               res.Costs,
			Kelly:               res.Kelly,
			OrgPath:             meta.OrgPath,
			EquityPNG:           meta.EquityPNG,
		},
		Trades: TradeRecords(runID, res.Trades),
	}

	for i, rj := range res.Rejections {
		run.Rejections = append(run.Rejections, RejectionRecord{
			RunID:  runID,
			Seq:    i,
			Date:   rj.Date,
			Side:   rj.Side.String(),
			Code:   rj.Code,
			Reason: rj.Reason,
		})
	}

	for i, v := range res.Equity {
		p := EquityPoint{RunID: runID, Seq: i, Value: v}
		if i < len(res.Dates) {
			p.Date = res.Dates[i]
		}
		run.Equity = append(run.Equity, p)
	}
	return run
}

// TradeRecords flattens the tagged trade log.
func TradeRecords(runID string, trades []backtest.Trade) []TradeRecord {
	out := make([]TradeRecord, 0, len(trades))
	for i, t := range trades {
		e := t.Exec()
		rec := TradeRecord{
			RunID:      runID,
			Seq:        i,
			Kind:       t.Kind().String(),
			Date:       e.Date,
			Price:      e.Price,
			EffPx:      e.EffectivePrice,
			Shares:     e.Shares,
			Commission: e.Commission,
			Slippage:   e.Slippage,
			ValueAfter: e.PortfolioValueAfter,
		}
		switch v := t.(type) {
		case backtest.Buy:
			rec.Cash = v.Cost
			rec.StopLoss = v.StopLossPrice
			rec.Target = v.TargetPrice
			rec.RiskReward = v.RiskReward
			rec.Sizing = v.Sizing.String()
		case backtest.Sell:
			rec.Cash, rec.PnL = v.Proceeds, v.PnL
		case backtest.StopLoss:
			rec.Cash, rec.PnL = v.Proceeds, v.PnL
		}
		out = append(out, rec)
	}
	return out
}

// Journal persists backtest runs.
type Journal interface {
	RecordRun(ctx context.Context, run Run) error
	Close() error
}
