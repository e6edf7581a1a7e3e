package statistics

import (
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// Config parameterizes a TradingSummary's ratio calculations.
type Config struct {
	RiskFreeReturn     float64
	TradingDaysPerYear float64
}

// TradingSummary is the per-asset online accumulator the Ledger keeps,
// updated once per position exit.
type TradingSummary struct {
	Asset          assets.Asset
	Config         Config
	StartingEquity float64

	PnL        PnLReturnSummary
	ProfitLoss ProfitLossSummary
	Drawdown   DrawdownSummary
	TearSheet  TearSheet
}

// New constructs a TradingSummary for asset, seeded with the session's
// starting equity and statistics configuration.
func New(asset assets.Asset, startingEquity float64, cfg Config) *TradingSummary {
	return &TradingSummary{
		Asset:          asset,
		Config:         cfg,
		StartingEquity: startingEquity,
	}
}

// Update folds one exited position into every sub-summary and recomputes
// the tear sheet.
func (s *TradingSummary) Update(exit position.Exit) {
	s.PnL.Update(exit)
	s.ProfitLoss.Update(exit)
	s.Drawdown.Update(EquityPoint{Time: exit.ExitBalance.Time, Total: exit.ExitBalance.Total})
	s.TearSheet.Update(&s.PnL, &s.Drawdown, s.Config.RiskFreeReturn, s.Config.TradingDaysPerYear)
}

// ResetStartTime re-anchors the session's start time, used by a Trader on
// its first backtest tick and by Core after prefetch discovers the earliest
// candle open time across all assets.
func (s *TradingSummary) ResetStartTime(t time.Time) {
	s.PnL.ResetStartTime(t)
}
