package backtest

import (
	"time"

	"github.com/aqua-quant/aqua/risk"
	"github.com/aqua-quant/aqua/sim"
)

// Result is the complete record of one run. Equity has one entry per input
// step, aligned with Dates; an empty input yields Equity of just the initial
// capital and no dates.
type Result struct {
	InitialCapital      float64 `json:"initial_capital"`
	FinalCapital        float64 `json:"final_capital"`
	TotalReturnPct      float64 `json:"total_return_pct"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	MaxDrawdownPct      float64 `json:"max_drawdown_pct"`
	WinRatePct          float64 `json:"win_rate_pct"`
	TotalTrades         int     `json:"total_trades"`
	RejectedTrades      int     `json:"rejected_trades"`
	StopLossesTriggered int     `json:"stop_losses_triggered"`

	Equity     []float64   `json:"equity_curve"`
	Dates      []time.Time `json:"dates"`
	Trades     []Trade     `json:"trades"`
	Rejections []Rejection `json:"rejections"`

	Costs     CostsSummary    `json:"costs_summary"`
	Kelly     risk.KellyStats `json:"kelly"`
	Portfolio sim.Snapshot    `json:"portfolio"`
	OpenLot   *sim.Lot        `json:"open_position,omitempty"`
	Config    risk.Config     `json:"config"`
}

// Start and End bound the replayed period.
func (r Result) Start() time.Time {
	if len(r.Dates) == 0 {
		return time.Time{}
	}
	return r.Dates[0]
}

func (r Result) End() time.Time {
	if len(r.Dates) == 0 {
		return time.Time{}
	}
	return r.Dates[len(r.Dates)-1]
}

// Buys returns the executed Buy trades in order.
func (r Result) Buys() []Buy {
	var out []Buy
	for _, t := range r.Trades {
		if b, ok := t.(Buy); ok {
			out = append(out, b)
		}
	}
	return out
}

// Exits returns the executed Sell and StopLoss trades in order.
func (r Result) Exits() []Exit {
	var out []Exit
	for _, t := range r.Trades {
		switch v := t.(type) {
		case Sell:
			out = append(out, v.Exit)
		case StopLoss:
			out = append(out, v.Exit)
		}
	}
	return out
}

// NetPL is the change in total value over the run.
func (r Result) NetPL() float64 { return r.FinalCapital - r.InitialCapital }
