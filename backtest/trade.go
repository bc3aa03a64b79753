package backtest

import (
	"encoding/json"
	"time"

	"github.com/aqua-quant/aqua/risk"
)

// Kind tags the variant of a Trade.
type Kind uint8

const (
	KindBuy Kind = iota + 1
	KindSell
	KindStopLoss
)

func (k Kind) String() string {
	switch k {
	case KindBuy:
		return "BUY"
	case KindSell:
		return "SELL"
	case KindStopLoss:
		return "STOP_LOSS"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Execution holds the fields every fill shares.
type Execution struct {
	Date                time.Time `json:"date"`
	Price               float64   `json:"price"`
	EffectivePrice      float64   `json:"effective_price"`
	Shares              int64     `json:"shares"`
	Commission          float64   `json:"commission"`
	Slippage            float64   `json:"slippage"`
	PortfolioValueAfter float64   `json:"portfolio_value_after"`
}

// Exec returns the shared fill fields.
func (e Execution) Exec() Execution { return e }

// Trade is one executed fill: a Buy, Sell or StopLoss.
type Trade interface {
	Kind() Kind
	Exec() Execution
}

// Buy opens the position.
type Buy struct {
	Execution
	Cost          float64     `json:"cost"` // cash debited, costs included
	StopLossPrice float64     `json:"stop_loss_price"`
	TargetPrice   float64     `json:"target_price"`
	RiskReward    float64     `json:"risk_reward_ratio"`
	Sizing        risk.Sizing `json:"sizing"`
}

func (Buy) Kind() Kind { return KindBuy }

// MarshalJSON adds the "kind" tag so a decoded trade log keeps its variants.
func (b Buy) MarshalJSON() ([]byte, error) {
	type plain Buy
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindBuy, plain(b)})
}

// Exit holds the fields shared by Sell and StopLoss.
type Exit struct {
	Execution
	Proceeds float64 `json:"proceeds"` // cash credited, costs deducted
	PnL      float64 `json:"pnl"`
}

// Sell closes the position on a SELL signal.
type Sell struct{ Exit }

func (Sell) Kind() Kind { return KindSell }

func (s Sell) MarshalJSON() ([]byte, error) { return s.marshalJSON(KindSell) }

// StopLoss closes the position because the close reached the stop.
type StopLoss struct{ Exit }

func (StopLoss) Kind() Kind { return KindStopLoss }

func (s StopLoss) MarshalJSON() ([]byte, error) { return s.marshalJSON(KindStopLoss) }

func (e Exit) marshalJSON(k Kind) ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		Exit
	}{k, e})
}

// Rejection is a signal the simulator declined to execute. It is an outcome,
// not an error.
type Rejection struct {
	Date   time.Time `json:"date"`
	Side   risk.Side `json:"side"`
	Code   string    `json:"code"`
	Reason string    `json:"reason"`
}

// Rejection codes produced by the simulator itself. Validation failures use
// the codes from risk.Policy.ValidateTrade.
const (
	CodeZeroShares = "ZERO_SHARES"
	CodeOpenFailed = "OPEN_FAILED"
)
