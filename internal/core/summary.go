package core

import (
	"sort"
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
)

// totalAsset labels the cross-asset aggregate row in a session summary.
var totalAsset = assets.New("TOTAL")

// Summary is the session-end report Core assembles once every Trader has
// finished: per-asset statistics, a "Total" aggregate across all assets,
// and the full exited-position history.
type Summary struct {
	ByAsset         map[assets.Asset]*statistics.TradingSummary
	Total           *statistics.TradingSummary
	ExitedPositions []position.Exit

	TextReport string
}

// assembleSummary replays every closed position, in exit-time order, into
// a fresh "Total" TradingSummary seeded with the earliest trade start
// across markets, then renders both tables via statistics.Report.
func assembleSummary(byAsset map[assets.Asset]*statistics.TradingSummary, closed []position.Position, startingCash float64, cfg statistics.Config) Summary {
	exits := make([]position.Exit, len(closed))
	for i, p := range closed {
		exits[i] = p.AsExit()
	}
	sort.Slice(exits, func(i, j int) bool { return exits[i].ExitTime.Before(exits[j].ExitTime) })

	total := statistics.New(totalAsset, startingCash, cfg)
	if start, ok := earliestStartTime(byAsset); ok {
		total.ResetStartTime(start)
	}
	for _, e := range exits {
		total.Update(e)
	}

	report := statistics.NewReport()
	text := report.Summary(byAsset, total) + "\n" + report.ExitedPositions(exits)

	return Summary{
		ByAsset:         byAsset,
		Total:           total,
		ExitedPositions: exits,
		TextReport:      text,
	}
}

// earliestStartTime returns the minimum PnL.StartTime across every asset's
// TradingSummary, the "earliest trade start across markets" the Total
// aggregate is seeded with.
func earliestStartTime(byAsset map[assets.Asset]*statistics.TradingSummary) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, s := range byAsset {
		if s.PnL.StartTime.IsZero() {
			continue
		}
		if !found || s.PnL.StartTime.Before(earliest) {
			earliest = s.PnL.StartTime
			found = true
		}
	}
	return earliest, found
}
