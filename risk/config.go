package risk

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig marks a risk configuration that is out of range. It is
// reported before a run starts.
var ErrInvalidConfig = errors.New("invalid risk config")

// StopMode selects how the stop-loss price of a new position is derived.
type StopMode string

const (
	StopFixed StopMode = "fixed" // entry * (1 - StopLossPct)
	StopATR   StopMode = "atr"   // entry - ATR * ATRMultiplier
)

// Config is the complete, immutable parameter set of one backtest run.
type Config struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`

	// Transaction costs
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"` // 0.001 = 0.1%
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate"`     // 0.0005 = 0.05%

	// Position limits
	MaxPositionPct   float64 `json:"max_position_pct" yaml:"max_position_pct"`     // (0, 1]
	MaxRiskPerTrade  float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"` // (0, 1]
	MinPositionValue float64 `json:"min_position_value" yaml:"min_position_value"` // >= 0
	MaxLeverage      float64 `json:"max_leverage" yaml:"max_leverage"`             // >= 1

	// Stops
	StopLossPct    float64  `json:"stop_loss_pct" yaml:"stop_loss_pct"` // (0, 1]
	EnableStopLoss bool     `json:"enable_stop_loss" yaml:"enable_stop_loss"`
	StopMode       StopMode `json:"stop_mode,omitempty" yaml:"stop_mode,omitempty"`
	ATRPeriod      int      `json:"atr_period,omitempty" yaml:"atr_period,omitempty"`
	ATRMultiplier  float64  `json:"atr_multiplier,omitempty" yaml:"atr_multiplier,omitempty"`

	UseKelly             bool `json:"use_kelly" yaml:"use_kelly"`
	EnableRiskManagement bool `json:"enable_risk_management" yaml:"enable_risk_management"`
}

// DefaultConfig returns the parameters the platform has always shipped with.
func DefaultConfig() Config {
	return Config{
		Symbol:               "STOCK",
		InitialCapital:       10_000,
		CommissionRate:       0.001,
		SlippageRate:         0.0005,
		MaxPositionPct:       0.2,
		MaxRiskPerTrade:      0.02,
		MinPositionValue:     100,
		MaxLeverage:          1,
		StopLossPct:          0.05,
		EnableStopLoss:       true,
		StopMode:             StopFixed,
		ATRPeriod:            14,
		ATRMultiplier:        2,
		UseKelly:             false,
		EnableRiskManagement: true,
	}
}

// Validate checks every parameter range and returns the first violation
// wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}

	if c.Symbol == "" {
		return bad("risk.symbol is required")
	}
	if !finite(c.InitialCapital) || c.InitialCapital <= 0 {
		return bad("risk.initial_capital must be positive")
	}
	if !finite(c.CommissionRate) || c.CommissionRate < 0 || c.CommissionRate >= 1 {
		return bad("risk.commission_rate must be in [0, 1)")
	}
	if !finite(c.SlippageRate) || c.SlippageRate < 0 || c.SlippageRate >= 1 {
		return bad("risk.slippage_rate must be in [0, 1)")
	}
	if !inUnit(c.MaxPositionPct) {
		return bad("risk.max_position_pct must be in (0, 1]")
	}
	if !inUnit(c.MaxRiskPerTrade) {
		return bad("risk.max_risk_per_trade must be in (0, 1]")
	}
	if !finite(c.MinPositionValue) || c.MinPositionValue < 0 {
		return bad("risk.min_position_value must be >= 0")
	}
	if !finite(c.MaxLeverage) || c.MaxLeverage < 1 {
		return bad("risk.max_leverage must be >= 1")
	}
	if !inUnit(c.StopLossPct) {
		return bad("risk.stop_loss_pct must be in (0, 1]")
	}

	switch c.StopMode {
	case StopFixed, "":
	case StopATR:
		if c.ATRPeriod <= 0 {
			return bad("risk.atr_period must be positive for atr stops")
		}
		if !finite(c.ATRMultiplier) || c.ATRMultiplier <= 0 {
			return bad("risk.atr_multiplier must be positive for atr stops")
		}
	default:
		return bad("risk.stop_mode must be 'fixed' or 'atr', got %q", c.StopMode)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func inUnit(x float64) bool {
	return finite(x) && x > 0 && x <= 1
}
