package events

import (
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// MarketMeta snapshots the close price and time a Signal (and in turn an
// Order) was decided on.
type MarketMeta struct {
	Close float64
	Time  time.Time
}

// Signal is a strategy's output for one MarketEvent: a small map of
// candidate Decisions to their strength. A produced Signal's Signals map is
// never empty; "no signal" is represented by returning no Signal at all,
// not an empty one.
type Signal struct {
	Time       time.Time
	Asset      assets.Asset
	MarketMeta MarketMeta
	Signals    map[Decision]SignalStrength
}

// Strongest returns the single Decision/SignalStrength pair when Signals
// holds exactly one entry, matching the model-output mapping in §4.2 where
// a produced Signal always carries exactly one candidate decision.
func (s Signal) Strongest() (Decision, SignalStrength, bool) {
	if len(s.Signals) != 1 {
		return 0, 0, false
	}
	for d, strength := range s.Signals {
		return d, strength, true
	}
	return 0, 0, false
}
