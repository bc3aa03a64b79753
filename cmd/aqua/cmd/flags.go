package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"

	"github.com/aqua-quant/aqua/config"
	"github.com/aqua-quant/aqua/market"
	"github.com/aqua-quant/aqua/risk"
	"github.com/aqua-quant/aqua/strategy"
)

// Flags only override the configuration when they were set on the command
// line, so a config file value is never clobbered by a flag default.

type dataFlags struct {
	path   string
	format string
}

func (f *dataFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.path, "data", "d", "", "price series file (csv or parquet)")
	fs.StringVar(&f.format, "format", "", "series format: csv or parquet (default from extension)")
}

func (f *dataFlags) apply(fs *pflag.FlagSet, dc *config.DataConfig) {
	if fs.Changed("data") {
		dc.Path = f.path
	}
	if fs.Changed("format") {
		dc.Format = f.format
	}
}

type strategyFlags struct {
	name string
	p    strategy.Params
}

func (f *strategyFlags) register(fs *pflag.FlagSet) {
	d := strategy.DefaultParams()
	fs.StringVarP(&f.name, "strategy", "s", "", fmt.Sprintf("generate signals with a strategy %v", strategy.Names()))
	fs.IntVar(&f.p.ShortWindow, "short", d.ShortWindow, "sma: short window")
	fs.IntVar(&f.p.LongWindow, "long", d.LongWindow, "sma: long window")
	fs.IntVar(&f.p.Window, "window", d.Window, "mean-reversion: window")
	fs.Float64Var(&f.p.NumStd, "num-std", d.NumStd, "mean-reversion: band width in standard deviations")
	fs.IntVar(&f.p.Lookback, "lookback", d.Lookback, "momentum: lookback")
}

func (f *strategyFlags) apply(fs *pflag.FlagSet, dc *config.DataConfig) {
	if fs.Changed("strategy") {
		dc.Strategy = f.name
	}
	if fs.Changed("short") {
		dc.Params.ShortWindow = f.p.ShortWindow
	}
	if fs.Changed("long") {
		dc.Params.LongWindow = f.p.LongWindow
	}
	if fs.Changed("window") {
		dc.Params.Window = f.p.Window
	}
	if fs.Changed("num-std") {
		dc.Params.NumStd = f.p.NumStd
	}
	if fs.Changed("lookback") {
		dc.Params.Lookback = f.p.Lookback
	}
}

type riskFlags struct {
	symbol      string
	capital     float64
	commission  float64
	slippage    float64
	maxPosition float64
	maxRisk     float64
	minPosition float64
	maxLeverage float64
	stopLoss    float64
	stopMode    string
	atrPeriod   int
	atrMult     float64
	stops       bool
	kelly       bool
	riskMgmt    bool

	except []string
}

// register adds the risk flags to fs, leaving out the names in except so a
// command can define its own flag under that name.
func (f *riskFlags) register(fs *pflag.FlagSet, except ...string) {
	f.except = except
	d := risk.DefaultConfig()
	own := pflag.NewFlagSet("risk", pflag.ContinueOnError)
	own.StringVar(&f.symbol, "symbol", d.Symbol, "symbol traded")
	own.Float64VarP(&f.capital, "capital", "b", d.InitialCapital, "initial capital")
	own.Float64Var(&f.commission, "commission", d.CommissionRate, "commission rate (0.001 = 0.1%)")
	own.Float64Var(&f.slippage, "slippage", d.SlippageRate, "slippage rate (0.0005 = 0.05%)")
	own.Float64Var(&f.maxPosition, "max-position", d.MaxPositionPct, "max position as a fraction of portfolio value")
	own.Float64Var(&f.maxRisk, "max-risk", d.MaxRiskPerTrade, "capital risked per trade")
	own.Float64Var(&f.minPosition, "min-position", d.MinPositionValue, "minimum trade value")
	own.Float64Var(&f.maxLeverage, "max-leverage", d.MaxLeverage, "max invested value over portfolio value")
	own.Float64Var(&f.stopLoss, "stop-loss", d.StopLossPct, "fixed stop distance (0.05 = 5%)")
	own.StringVar(&f.stopMode, "stop-mode", string(d.StopMode), "stop mode: fixed or atr")
	own.IntVar(&f.atrPeriod, "atr-period", d.ATRPeriod, "atr: period")
	own.Float64Var(&f.atrMult, "atr-mult", d.ATRMultiplier, "atr: stop distance in ATRs")
	own.BoolVar(&f.stops, "stops", d.EnableStopLoss, "enforce stop losses")
	own.BoolVar(&f.kelly, "kelly", d.UseKelly, "size with half-Kelly once enough trades exist")
	own.BoolVar(&f.riskMgmt, "risk-management", d.EnableRiskManagement, "apply sizing limits and trade validation")

	own.VisitAll(func(fl *pflag.Flag) {
		if !slices.Contains(except, fl.Name) {
			fs.AddFlag(fl)
		}
	})
}

func (f *riskFlags) apply(fs *pflag.FlagSet, rc *risk.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) && !slices.Contains(f.except, name) {
			fn()
		}
	}
	set("symbol", func() { rc.Symbol = f.symbol })
	set("capital", func() { rc.InitialCapital = f.capital })
	set("commission", func() { rc.CommissionRate = f.commission })
	set("slippage", func() { rc.SlippageRate = f.slippage })
	set("max-position", func() { rc.MaxPositionPct = f.maxPosition })
	set("max-risk", func() { rc.MaxRiskPerTrade = f.maxRisk })
	set("min-position", func() { rc.MinPositionValue = f.minPosition })
	set("max-leverage", func() { rc.MaxLeverage = f.maxLeverage })
	set("stop-loss", func() { rc.StopLossPct = f.stopLoss })
	set("stop-mode", func() { rc.StopMode = risk.StopMode(f.stopMode) })
	set("atr-period", func() { rc.ATRPeriod = f.atrPeriod })
	set("atr-mult", func() { rc.ATRMultiplier = f.atrMult })
	set("stops", func() { rc.EnableStopLoss = f.stops })
	set("kelly", func() { rc.UseKelly = f.kelly })
	set("risk-management", func() { rc.EnableRiskManagement = f.riskMgmt })
}

type journalFlags struct {
	kind      string
	db        string
	tradesCSV string
	equityCSV string
	org       string
	png       string
}

func (f *journalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.kind, "journal", "", "journal type: none, sqlite or csv (default from config)")
	fs.StringVar(&f.db, "db", "", "SQLite journal path")
	fs.StringVar(&f.tradesCSV, "trades-csv", "", "CSV journal trades file")
	fs.StringVar(&f.equityCSV, "equity-csv", "", "CSV journal equity file")
	fs.StringVar(&f.org, "org", "", "write an Org-mode report")
	fs.StringVar(&f.png, "png", "", "write an equity curve PNG")
}

func (f *journalFlags) apply(fs *pflag.FlagSet, jc *config.JournalConfig) {
	if fs.Changed("db") {
		jc.Type = "sqlite"
		jc.DBPath = f.db
	}
	if fs.Changed("trades-csv") || fs.Changed("equity-csv") {
		jc.Type = "csv"
		jc.TradesFile = f.tradesCSV
		jc.EquityFile = f.equityCSV
	}
	if fs.Changed("journal") {
		jc.Type = f.kind
	}
	if fs.Changed("org") {
		jc.OrgPath = f.org
	}
	if fs.Changed("png") {
		jc.EquityPNG = f.png
	}
}

// loadSeries reads the configured data file and, when a strategy is
// configured, replaces its signals with the strategy's. It returns the series
// and the name of the signal source.
func loadSeries(dc config.DataConfig) (market.Series, string, error) {
	if dc.Path == "" {
		return nil, "", fmt.Errorf("no data file: set --data or data.path")
	}
	series, err := market.Load(dc.Path, dc.Format)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", dc.Path, err)
	}
	if dc.Strategy == "" {
		return series, "file", nil
	}

	s, err := strategy.ByName(dc.Strategy, dc.Params)
	if err != nil {
		return nil, "", err
	}
	return strategy.Label(s, series), s.Name(), nil
}
