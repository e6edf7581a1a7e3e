package statistics

import (
	"math"
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// PnLReturnSummary tracks session-level trade cadence and the distribution
// of per-trade PnL returns, separating losing trades into their own
// DataSummary so ratio calculations can use a loss-only denominator.
type PnLReturnSummary struct {
	StartTime    time.Time
	Duration     time.Duration
	TradesPerDay float64
	Total        DataSummary
	Losses       DataSummary
}

// Update folds one exited position into the summary.
func (s *PnLReturnSummary) Update(exit position.Exit) {
	if s.Total.Count() == 0 {
		s.StartTime = exit.EnterTime
	}

	endTime := exit.ExitBalance.Time
	if endTime.IsZero() {
		endTime = exit.ExitTime
	}
	s.Duration = endTime.Sub(s.StartTime)

	if days := s.Duration.Seconds() / 86400; days > 0 {
		s.TradesPerDay = float64(s.Total.Count()+1) / days
	}

	s.Total.Update(exit.ProfitLossReturn)
	if exit.ProfitLossReturn < 0 {
		s.Losses.Update(exit.ProfitLossReturn)
	}
}

// ResetStartTime re-anchors the session's start time. Update replaces
// StartTime with the entry time of the first trade it records, so an
// anchor set before any trade lasts only until then.
func (s *PnLReturnSummary) ResetStartTime(t time.Time) {
	s.StartTime = t
}

// SideTotals is the long/short/aggregate breakdown kept by ProfitLossSummary.
type SideTotals struct {
	Trades         int64
	Quantity       float64
	RealisedPnL    float64
	PnLPerContract float64
}

func (t *SideTotals) update(absQuantity, realisedPnL float64) {
	t.Trades++
	t.Quantity += absQuantity
	t.RealisedPnL += realisedPnL
	if t.Quantity != 0 {
		t.PnLPerContract = t.RealisedPnL / t.Quantity
	}
}

// ProfitLossSummary separates realised PnL and traded size by side.
type ProfitLossSummary struct {
	Long  SideTotals
	Short SideTotals
	Total SideTotals
}

// Update folds one exited position into the summary.
func (s *ProfitLossSummary) Update(exit position.Exit) {
	absQty := math.Abs(exit.Quantity)

	switch exit.Side {
	case assets.SideBuy:
		s.Long.update(absQty, exit.RealisedProfitLoss)
	case assets.SideSell:
		s.Short.update(absQty, exit.RealisedProfitLoss)
	}
	s.Total.update(absQty, exit.RealisedProfitLoss)
}
