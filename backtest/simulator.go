package backtest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aqua-quant/aqua/indicators"
	"github.com/aqua-quant/aqua/market"
	"github.com/aqua-quant/aqua/risk"
	"github.com/aqua-quant/aqua/sim"
)

// TargetPct places the profit target of a new long this far above entry.
const TargetPct = 0.10

// Simulator replays a labeled series against a fresh portfolio. A Simulator
// holds only immutable configuration; every Run owns its own state, so one
// Simulator may run concurrently on several series.
type Simulator struct {
	cfg    risk.Config
	policy risk.Policy
	log    *slog.Logger
}

type Option func(*Simulator)

// WithLogger sets the logger run events are written to. The default discards
// everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

func New(cfg risk.Config, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:    cfg,
		policy: risk.NewPolicy(cfg),
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Config() risk.Config { return s.cfg }

// Run replays series and returns the complete result. Configuration and
// input problems are reported before any step executes, with a zero Result.
// Rejected trades never fail a run.
func (s *Simulator) Run(series market.Series) (Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return Result{}, err
	}
	if err := series.Validate(); err != nil {
		return Result{}, err
	}

	s.log.Info("backtest started",
		"symbol", s.cfg.Symbol,
		"steps", len(series),
		"initial_capital", s.cfg.InitialCapital,
		"use_kelly", s.cfg.UseKelly,
		"stop_loss", s.cfg.EnableStopLoss,
		"stop_mode", s.cfg.StopMode,
		"risk_management", s.cfg.EnableRiskManagement,
	)

	r := newRun(s)
	for _, st := range series {
		r.step(st)
	}
	res := r.result()

	s.log.Info("backtest completed",
		"symbol", s.cfg.Symbol,
		"final_capital", res.FinalCapital,
		"total_return_pct", res.TotalReturnPct,
		"sharpe", res.SharpeRatio,
		"max_drawdown_pct", res.MaxDrawdownPct,
		"trades", res.TotalTrades,
		"rejected", res.RejectedTrades,
		"stop_losses", res.StopLossesTriggered,
	)
	return res, nil
}

// run is the mutable state of a single replay.
type run struct {
	cfg    risk.Config
	policy risk.Policy
	costs  risk.CostModel
	log    *slog.Logger

	pf  *sim.Portfolio
	lot *sim.Lot
	atr *indicators.ATR

	history    risk.History
	trades     []Trade
	rejections []Rejection
	equity     []float64
	dates      []time.Time
	stops      int
	tally      costTally
}

func newRun(s *Simulator) *run {
	r := &run{
		cfg:    s.cfg,
		policy: s.policy,
		costs:  s.policy.CostModel(),
		log:    s.log,
		pf:     sim.NewPortfolio(s.cfg.InitialCapital),
	}
	if s.cfg.StopMode == risk.StopATR {
		r.atr = indicators.NewATR(s.cfg.ATRPeriod)
	}
	return r
}

// step advances one bar: mark to market, enforce the stop, act on the
// signal, then record equity. A stop-out consumes the bar's signal.
func (r *run) step(st market.Step) {
	if r.atr != nil {
		r.atr.Update(st.Close)
	}

	r.pf.MarkToMarket(r.cfg.Symbol, st.Close)

	if r.cfg.EnableStopLoss && r.lot != nil && r.lot.StopHit(st.Close) {
		r.stopOut(st)
	} else {
		switch st.Signal {
		case market.Buy:
			if r.lot == nil {
				r.buy(st)
			}
		case market.Sell:
			if r.lot != nil {
				r.sell(st)
			}
		}
	}

	r.equity = append(r.equity, r.pf.TotalValue())
	r.dates = append(r.dates, st.Date)
}

func (r *run) buy(st market.Step) {
	sym := r.cfg.Symbol
	price := st.Close

	atr := 0.0
	if r.atr != nil {
		atr = r.atr.Value()
	}
	stop := r.policy.StopLoss(price, atr)

	var shares int64
	var sizing risk.Sizing
	if r.cfg.EnableRiskManagement {
		stopPct := r.cfg.StopLossPct
		if r.cfg.StopMode == risk.StopATR {
			stopPct = risk.StopDistancePct(price, stop)
		}
		shares, sizing = r.policy.SizePosition(r.pf.Cash(), price, stopPct, r.history, r.cfg.UseKelly)
		if sizing == risk.SizingKelly {
			in := r.history.Inputs()
			r.log.Debug("kelly sizing",
				"date", st.Date,
				"win_rate", in.WinRate,
				"avg_win", in.AvgWin,
				"avg_loss", in.AvgLoss,
				"fraction", risk.KellyFraction(in, r.cfg.MaxPositionPct),
			)
		}
	} else {
		shares, sizing = r.policy.MaxAffordableShares(r.pf.Cash(), price), risk.SizingAllIn
	}

	if shares == 0 {
		r.reject(st, risk.Buy, CodeZeroShares, fmt.Sprintf("position size is zero at price %.2f", price))
		return
	}

	if r.cfg.EnableRiskManagement {
		if d := r.policy.ValidateTrade(r.pf, sym, shares, price, risk.Buy); !d.Allowed {
			r.reject(st, risk.Buy, d.Violations[0].Code, d.Reason())
			return
		}
	}

	equity := r.pf.TotalValue()
	debit, c := r.costs.BuyDebit(price, shares)
	if err := r.pf.Open(sym, shares, debit, price); err != nil {
		r.reject(st, risk.Buy, CodeOpenFailed, err.Error())
		return
	}
	r.tally.add(c)

	target := price * (1 + TargetPct)
	r.lot = &sim.Lot{
		Symbol:         sym,
		Shares:         shares,
		EntryDate:      st.Date,
		EntryPrice:     price,
		EffectivePrice: c.EffectivePrice,
		EntryCost:      debit,
		StopLoss:       stop,
		Target:         target,
	}

	b := Buy{
		Execution:     r.execution(st, shares, c),
		Cost:          debit,
		StopLossPrice: stop,
		TargetPrice:   target,
		RiskReward:    risk.RR(price, stop, target, risk.Buy),
		Sizing:        sizing,
	}
	r.trades = append(r.trades, b)

	planned := risk.PlannedRisk(shares, price, stop)
	r.log.Debug("buy executed",
		"date", st.Date,
		"price", price,
		"shares", shares,
		"cost", debit,
		"stop", stop,
		"planned_risk", planned,
		"risk_pct", risk.RiskPct(planned, equity),
		"sizing", sizing,
	)
}

func (r *run) sell(st market.Step) {
	if r.cfg.EnableRiskManagement {
		d := r.policy.ValidateTrade(r.pf, r.cfg.Symbol, r.lot.Shares, st.Close, risk.Sell)
		if !d.Allowed {
			r.reject(st, risk.Sell, d.Violations[0].Code, d.Reason())
			return
		}
	}

	x, ok := r.exit(st)
	if !ok {
		return
	}
	r.trades = append(r.trades, Sell{Exit: x})

	r.log.Debug("sell executed",
		"date", st.Date,
		"price", st.Close,
		"shares", x.Shares,
		"proceeds", x.Proceeds,
		"pnl", x.PnL,
	)
}

func (r *run) stopOut(st market.Step) {
	stop := r.lot.StopLoss
	x, ok := r.exit(st)
	if !ok {
		return
	}
	r.trades = append(r.trades, StopLoss{Exit: x})
	r.stops++

	r.log.Info("stop loss triggered",
		"date", st.Date,
		"price", st.Close,
		"stop", stop,
		"shares", x.Shares,
		"pnl", x.PnL,
	)
}

// exit closes the open lot at the bar's close and records the round trip.
func (r *run) exit(st market.Step) (Exit, bool) {
	lot := r.lot
	proceeds, c := r.costs.SellProceeds(st.Close, lot.Shares)

	shares, err := r.pf.Close(lot.Symbol, proceeds)
	if err != nil {
		// The lot and the ledger disagree; drop the lot so the run can go on.
		r.log.Error("close failed", "date", st.Date, "err", err)
		r.lot = nil
		return Exit{}, false
	}
	r.tally.add(c)
	r.lot = nil

	pnl := proceeds - lot.EntryCost
	r.history = append(r.history, risk.RoundTrip{
		EntryPrice: lot.EntryCost / float64(shares),
		ExitPrice:  st.Close,
		Shares:     shares,
		PnL:        pnl,
	})

	return Exit{
		Execution: r.execution(st, shares, c),
		Proceeds:  proceeds,
		PnL:       pnl,
	}, true
}

func (r *run) execution(st market.Step, shares int64, c risk.Costs) Execution {
	return Execution{
		Date:                st.Date,
		Price:               st.Close,
		EffectivePrice:      c.EffectivePrice,
		Shares:              shares,
		Commission:          c.Commission,
		Slippage:            c.Slippage,
		PortfolioValueAfter: r.pf.TotalValue(),
	}
}

func (r *run) reject(st market.Step, side risk.Side, code, reason string) {
	r.rejections = append(r.rejections, Rejection{
		Date:   st.Date,
		Side:   side,
		Code:   code,
		Reason: reason,
	})
	r.log.Warn("trade rejected",
		"date", st.Date,
		"side", side,
		"code", code,
		"reason", reason,
	)
}

func (r *run) result() Result {
	initial := r.cfg.InitialCapital

	equity := r.equity
	if len(equity) == 0 {
		equity = []float64{initial}
	}
	final := equity[len(equity)-1]

	res := Result{
		InitialCapital:      initial,
		FinalCapital:        final,
		SharpeRatio:         Sharpe(Returns(equity)),
		MaxDrawdownPct:      MaxDrawdownPct(equity),
		WinRatePct:          WinRatePct(r.trades),
		TotalTrades:         len(r.trades),
		RejectedTrades:      len(r.rejections),
		StopLossesTriggered: r.stops,
		Equity:              equity,
		Dates:               r.dates,
		Trades:              r.trades,
		Rejections:          r.rejections,
		Costs:               r.tally.summary(initial),
		Kelly:               r.history.Stats(r.cfg.UseKelly),
		Portfolio:           r.pf.Snapshot(),
		Config:              r.cfg,
	}
	if initial > 0 {
		res.TotalReturnPct = (final - initial) / initial * 100
	}
	if r.lot != nil {
		lot := *r.lot
		res.OpenLot = &lot
	}
	return res
}
