package journal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"
)

// FormatTradeOrg renders a fill as an Org-mode block. Structured facts go in
// a PROPERTIES drawer; the Review heading is left for notes.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*** %s %s %d @ %.2f\n", t.Date.UTC().Format(time.DateOnly), t.Kind, t.Shares, t.Price)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", t.RunID)
	fmt.Fprintf(&b, ":SEQ: %d\n", t.Seq)
	fmt.Fprintf(&b, ":KIND: %s\n", t.Kind)
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":SHARES: %d\n", t.Shares)
	fmt.Fprintf(&b, ":PRICE: %.4f\n", t.Price)
	fmt.Fprintf(&b, ":EFFECTIVE_PRICE: %.4f\n", t.EffPx)
	fmt.Fprintf(&b, ":COMMISSION: %s\n", money(t.Commission))
	fmt.Fprintf(&b, ":SLIPPAGE: %s\n", money(t.Slippage))
	if t.Kind == "BUY" {
		fmt.Fprintf(&b, ":COST: %s\n", money(t.Cash))
		fmt.Fprintf(&b, ":STOP_LOSS: %.4f\n", t.StopLoss)
		fmt.Fprintf(&b, ":TARGET: %.4f\n", t.Target)
		fmt.Fprintf(&b, ":RISK_REWARD: %.2f\n", t.RiskReward)
		fmt.Fprintf(&b, ":SIZING: %s\n", t.Sizing)
	} else {
		fmt.Fprintf(&b, ":PROCEEDS: %s\n", money(t.Cash))
		fmt.Fprintf(&b, ":PNL: %s\n", money(t.PnL))
	}
	fmt.Fprintf(&b, ":VALUE_AFTER: %s\n", money(t.ValueAfter))
	b.WriteString(":END:\n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

var runOrgFuncs = template.FuncMap{
	"money":  money,
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"trades": FormatTradesOrg,
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

type orgView struct {
	RunRecord
	Trades []TradeRecord
}

// RenderRunOrg writes the Org report of a run and its trades.
func RenderRunOrg(w io.Writer, run RunRecord, trades []TradeRecord) error {
	return runOrgTmpl.Execute(w, orgView{RunRecord: run, Trades: trades})
}

// WriteRunOrg writes the Org report to path.
func WriteRunOrg(path string, run RunRecord, trades []TradeRecord) error {
	var b strings.Builder
	if err := RenderRunOrg(&b, run, trades); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

const RunOrgTemplate = `* BACKTEST: {{if .Strategy}}{{.Strategy}}{{else}}signals{{end}} {{.Symbol}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:STRATEGY:    {{if .Strategy}}{{.Strategy}}{{else}}(precomputed){{end}}
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_BAL:   {{money .InitialCapital}}
:END_BAL:     {{money .FinalCapital}}
:NET_PL:      {{money .NetPL}}
:RETURN_PCT:  {{printf "%.2f" .TotalReturnPct}}
:SHARPE:      {{printf "%.3f" .SharpeRatio}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDrawdownPct}}
:TRADES:      {{.TotalTrades}}
:REJECTED:    {{.RejectedTrades}}
:STOP_LOSSES: {{.StopLossesTriggered}}
:WIN_RATE:    {{printf "%.2f" .WinRatePct}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Risk Parameters
| Parameter          | Value |
|--------------------+-------|
| Initial Capital    | {{money .Config.InitialCapital}} |
| Commission Rate    | {{printf "%.4f" .Config.CommissionRate}} |
| Slippage Rate      | {{printf "%.4f" .Config.SlippageRate}} |
| Max Position %     | {{printf "%.2f" .Config.MaxPositionPct}} |
| Max Risk per Trade | {{printf "%.4f" .Config.MaxRiskPerTrade}} |
| Min Position Value | {{money .Config.MinPositionValue}} |
| Max Leverage       | {{printf "%.2f" .Config.MaxLeverage}} |
| Stop Loss          | {{if .Config.EnableStopLoss}}{{if eq (print .Config.StopMode) "atr"}}{{printf "%.1f" .Config.ATRMultiplier}}x ATR({{.Config.ATRPeriod}}){{else}}{{printf "%.2f%%" (mul100 .Config.StopLossPct)}}{{end}}{{else}}off{{end}} |
| Kelly              | {{.Config.UseKelly}} |
| Risk Management    | {{.Config.EnableRiskManagement}} |

** Performance Summary
- Net P/L:          *{{money .NetPL}}*
- Return:           *{{printf "%.2f" .TotalReturnPct}}%*
- Sharpe:           *{{printf "%.3f" .SharpeRatio}}*
- Max Drawdown:     *{{printf "%.2f" .MaxDrawdownPct}}%*
- Win Rate:         *{{printf "%.2f" .WinRatePct}}%*
- Costs:            *{{money .Costs.TotalCosts}}* ({{printf "%.3f" .Costs.CostsPct}}% of capital)

** Round Trips
| Outcome  | Count |
|----------+-------|
| Wins     | {{.Kelly.Wins}} |
| Losses   | {{.Kelly.Losses}} |
| Total    | {{.Kelly.CompletedRoundTrips}} |
| Avg Win  | {{money .Kelly.AvgWin}} |
| Avg Loss | {{money .Kelly.AvgLoss}} |
| Kelly    | {{if .Kelly.KellyActive}}active{{else}}inactive{{end}} |

** Equity Curve
{{- if .EquityPNG }}
[[file:{{.EquityPNG}}]]
{{- else }}
# (optional) insert an exported equity curve image here
{{- end }}
{{- if .Trades }}

** Trades
{{ trades .Trades }}
{{- end }}
`
