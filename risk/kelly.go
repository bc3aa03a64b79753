package risk

// MinTradesForKelly is the number of completed round trips required before
// Kelly sizing replaces fixed-fractional sizing.
const MinTradesForKelly = 10

// KellySafetyFactor scales the raw Kelly fraction (half-Kelly).
const KellySafetyFactor = 0.5

// RoundTrip is one completed entry/exit pair.
type RoundTrip struct {
	EntryPrice float64 // entry cost per share, costs included
	ExitPrice  float64 // quoted exit price
	Shares     int64
	PnL        float64
}

// Win reports whether the round trip made money. Break-even is a loss.
func (rt RoundTrip) Win() bool { return rt.PnL > 0 }

// History is the ordered list of completed round trips of a run.
type History []RoundTrip

// KellyStats summarizes a history for Kelly sizing and reporting.
type KellyStats struct {
	CompletedRoundTrips int     `json:"completed_round_trips"`
	Wins                int     `json:"wins"`
	Losses              int     `json:"losses"`
	WinRate             float64 `json:"win_rate"` // 0..1
	AvgWin              float64 `json:"avg_win"`
	AvgLoss             float64 `json:"avg_loss"` // positive magnitude
	KellyActive         bool    `json:"kelly_active"`
}

// Stats computes the win/loss statistics of h. AvgWin and AvgLoss are 0 when
// there are no wins or losses respectively. KellyActive is set when useKelly
// is requested and the history is long enough for Kelly sizing.
func (h History) Stats(useKelly bool) KellyStats {
	s := KellyStats{CompletedRoundTrips: len(h)}

	var winSum, lossSum float64
	for _, rt := range h {
		if rt.Win() {
			s.Wins++
			winSum += rt.PnL
		} else {
			s.Losses++
			lossSum += rt.PnL
		}
	}

	if len(h) > 0 {
		s.WinRate = float64(s.Wins) / float64(len(h))
	}
	if s.Wins > 0 {
		s.AvgWin = winSum / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = abs(lossSum / float64(s.Losses))
	}
	s.KellyActive = useKelly && len(h) >= MinTradesForKelly
	return s
}

// KellyInputs are the estimates fed to the Kelly formula.
type KellyInputs struct {
	WinRate float64
	AvgWin  float64
	AvgLoss float64
}

// Inputs derives Kelly inputs from the history. With no losing trades the
// average loss is taken as 1 so a winning streak still sizes a position.
func (h History) Inputs() KellyInputs {
	s := h.Stats(false)
	in := KellyInputs{WinRate: s.WinRate, AvgWin: s.AvgWin, AvgLoss: s.AvgLoss}
	if s.Losses == 0 {
		in.AvgLoss = 1
	}
	return in
}

// KellyFraction returns the half-Kelly fraction of capital to commit,
// clamped to [0, maxFraction]. It is 0 when the edge is not positive
// (p*b <= q) or the win/loss ratio is undefined.
func KellyFraction(in KellyInputs, maxFraction float64) float64 {
	if in.AvgLoss == 0 {
		return 0
	}
	b := abs(in.AvgWin / in.AvgLoss)
	p := in.WinRate
	q := 1 - p
	if b <= 0 || p*b <= q {
		return 0
	}

	f := (p*b - q) / b * KellySafetyFactor
	if f < 0 {
		return 0
	}
	if f > maxFraction {
		return maxFraction
	}
	return f
}
