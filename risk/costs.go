package risk

// Side is the direction of an execution: +1 buy, -1 sell.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Costs is the commission and slippage charged on one execution.
type Costs struct {
	Commission     float64
	Slippage       float64
	TotalCost      float64
	EffectivePrice float64
}

// CostModel charges a flat commission rate on trade value and models
// slippage as an adverse move of the fill price by SlippageRate.
type CostModel struct {
	CommissionRate float64
	SlippageRate   float64
}

func NewCostModel(cfg Config) CostModel {
	return CostModel{CommissionRate: cfg.CommissionRate, SlippageRate: cfg.SlippageRate}
}

// Apply returns the costs of filling qty shares at price. Buys fill above
// the quote and sells below it; zero quantity costs nothing and fills at the
// quote.
func (m CostModel) Apply(price float64, qty int64, side Side) Costs {
	if qty == 0 {
		return Costs{EffectivePrice: price}
	}

	value := price * float64(qty)
	commission := value * m.CommissionRate
	slippage := value * m.SlippageRate

	eff := price * (1 + m.SlippageRate)
	if side == Sell {
		eff = price * (1 - m.SlippageRate)
	}

	return Costs{
		Commission:     commission,
		Slippage:       slippage,
		TotalCost:      commission + slippage,
		EffectivePrice: eff,
	}
}

// BuyDebit is the cash a buy of qty at price consumes: trade value plus all
// costs. It equals qty*EffectivePrice + Commission.
func (m CostModel) BuyDebit(price float64, qty int64) (float64, Costs) {
	c := m.Apply(price, qty, Buy)
	return price*float64(qty) + c.TotalCost, c
}

// SellProceeds is the cash a sale of qty at price returns: trade value less
// all costs. It equals qty*EffectivePrice - Commission.
func (m CostModel) SellProceeds(price float64, qty int64) (float64, Costs) {
	c := m.Apply(price, qty, Sell)
	return price*float64(qty) - c.TotalCost, c
}
