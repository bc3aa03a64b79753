package sim

import "time"

// Lot is the open long position the simulator carries between entry and
// exit.
type Lot struct {
	Symbol         string
	Shares         int64
	EntryDate      time.Time
	EntryPrice     float64 // quoted close at entry
	EffectivePrice float64 // after slippage
	EntryCost      float64 // cash debited, costs included
	StopLoss       float64
	Target         float64
}

// StopHit reports whether a close at price reaches the stop. A close equal to
// the stop triggers it.
func (l Lot) StopHit(price float64) bool {
	if l.StopLoss <= 0 {
		return false
	}
	return price <= l.StopLoss
}

// UnrealizedPL is the gain of the lot if it were valued at price, before exit
// costs.
func (l Lot) UnrealizedPL(price float64) float64 {
	return float64(l.Shares)*price - l.EntryCost
}
