package backtest

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aqua-quant/aqua/risk"
)

// PrintResult writes a human-readable report of r.
func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbol:        %s\n", r.Config.Symbol)
	if start := r.Start(); !start.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", start.Format(time.DateOnly))
		fmt.Fprintf(w, "End:           %s\n", r.End().Format(time.DateOnly))
	}
	fmt.Fprintf(w, "Steps:         %d\n", len(r.Dates))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk Configuration")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Risk per Trade: %.2f%%\n", r.Config.MaxRiskPerTrade*100)
	fmt.Fprintf(w, "Max Position:  %.2f%%\n", r.Config.MaxPositionPct*100)
	if r.Config.EnableStopLoss {
		fmt.Fprintf(w, "Stop Loss:     %s\n", stopLabel(r))
	} else {
		fmt.Fprintln(w, "Stop Loss:     off")
	}
	fmt.Fprintf(w, "Kelly:         %t\n", r.Config.UseKelly)
	fmt.Fprintf(w, "Risk Mgmt:     %t\n", r.Config.EnableRiskManagement)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Rejected:      %d\n", r.RejectedTrades)
	fmt.Fprintf(w, "Stop Losses:   %d\n", r.StopLossesTriggered)
	fmt.Fprintf(w, "Round Trips:   %d\n", r.Kelly.CompletedRoundTrips)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.WinRatePct)
	if r.Kelly.CompletedRoundTrips > 0 {
		fmt.Fprintf(w, "Avg Win:       %.2f\n", r.Kelly.AvgWin)
		fmt.Fprintf(w, "Avg Loss:      %.2f\n", r.Kelly.AvgLoss)
	}
	if r.Kelly.KellyActive {
		fmt.Fprintln(w, "Kelly Active:  yes")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "End Balance:   %.2f\n", r.FinalCapital)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.NetPL())
	fmt.Fprintf(w, "Return:        %.2f%%\n", r.TotalReturnPct)
	fmt.Fprintf(w, "Sharpe:        %.3f\n", r.SharpeRatio)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Costs")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Commission:    %.2f\n", r.Costs.TotalCommission)
	fmt.Fprintf(w, "Slippage:      %.2f\n", r.Costs.TotalSlippage)
	fmt.Fprintf(w, "Total:         %.2f (%.3f%% of capital)\n", r.Costs.TotalCosts, r.Costs.CostsPct)

	if r.OpenLot != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Position")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Shares:        %d @ %.2f\n", r.OpenLot.Shares, r.OpenLot.EntryPrice)
		fmt.Fprintf(w, "Stop:          %.2f\n", r.OpenLot.StopLoss)
		if v, ok := r.Portfolio.Values[r.OpenLot.Symbol]; ok && r.OpenLot.Shares > 0 {
			last := v / float64(r.OpenLot.Shares)
			fmt.Fprintf(w, "Last Price:    %.2f\n", last)
			fmt.Fprintf(w, "Unrealized:    %.2f\n", r.OpenLot.UnrealizedPL(last))
		}
	}

	if len(r.Rejections) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Rejections")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, rj := range r.Rejections {
			fmt.Fprintf(w, "- %s %s %s: %s\n", rj.Date.Format(time.DateOnly), rj.Side, rj.Code, rj.Reason)
		}
	}

	fmt.Fprintln(w)
}

func stopLabel(r Result) string {
	if r.Config.StopMode == risk.StopATR {
		return fmt.Sprintf("%.1fx ATR(%d)", r.Config.ATRMultiplier, r.Config.ATRPeriod)
	}
	return fmt.Sprintf("%.2f%%", r.Config.StopLossPct*100)
}

// PrintTrades writes the trade log as an aligned table.
func PrintTrades(w io.Writer, trades []Trade) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tSHARES\tPRICE\tEFF PRICE\tCASH\tPNL\tVALUE AFTER")
	for _, t := range trades {
		e := t.Exec()
		cash, pnl := "", ""
		switch v := t.(type) {
		case Buy:
			cash = fmt.Sprintf("-%.2f", v.Cost)
		case Sell:
			cash, pnl = fmt.Sprintf("+%.2f", v.Proceeds), fmt.Sprintf("%.2f", v.PnL)
		case StopLoss:
			cash, pnl = fmt.Sprintf("+%.2f", v.Proceeds), fmt.Sprintf("%.2f", v.PnL)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.4f\t%s\t%s\t%.2f\n",
			e.Date.Format(time.DateOnly), t.Kind(), e.Shares, e.Price, e.EffectivePrice, cash, pnl, e.PortfolioValueAfter)
	}
	return tw.Flush()
}

// PrintSweep writes one summary row per result.
func PrintSweep(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTOP\tKELLY\tRISK\tRETURN %\tSHARPE\tMAX DD %\tWIN %\tTRADES\tREJECTED\tSTOPS")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%t\t%.2f%%\t%.2f\t%.3f\t%.2f\t%.2f\t%d\t%d\t%d\n",
			i, stopLabel(r), r.Config.UseKelly, r.Config.MaxRiskPerTrade*100,
			r.TotalReturnPct, r.SharpeRatio, r.MaxDrawdownPct, r.WinRatePct,
			r.TotalTrades, r.RejectedTrades, r.StopLossesTriggered)
	}
	return tw.Flush()
}
