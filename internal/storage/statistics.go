package storage

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
)

// SetStatistics snapshots the reportable fields of a TradingSummary. The
// Welford accumulators' internal state is not round-tripped: a restarted
// core resumes counting from zero rather than replaying history, which
// matches the engine's "re-initialise starting_time from prefetch" startup
// path rather than attempting exact resume.
func (p *Postgres) SetStatistics(ctx context.Context, asset assets.Asset, summary *statistics.TradingSummary) error {
	const stmt = `
		INSERT INTO statistics (
			asset, starting_equity, risk_free_return, trading_days_per_year,
			trades, pnl_mean, max_drawdown, sharpe_per_trade, sortino_per_trade, calmar_per_trade
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (asset) DO UPDATE SET
			trades = EXCLUDED.trades, pnl_mean = EXCLUDED.pnl_mean, max_drawdown = EXCLUDED.max_drawdown,
			sharpe_per_trade = EXCLUDED.sharpe_per_trade, sortino_per_trade = EXCLUDED.sortino_per_trade,
			calmar_per_trade = EXCLUDED.calmar_per_trade`
	return p.exec(ctx, stmt,
		asset.Symbol, summary.StartingEquity, summary.Config.RiskFreeReturn, summary.Config.TradingDaysPerYear,
		summary.ProfitLoss.Total.Trades, summary.PnL.Total.Mean(), summary.Drawdown.MaxDrawdown().Value,
		summary.TearSheet.Sharpe.PerTrade, summary.TearSheet.Sortino.PerTrade, summary.TearSheet.Calmar.PerTrade,
	)
}

// GetStatistics restores a TradingSummary's configuration and starting
// equity; its online accumulators begin fresh, per SetStatistics's note.
func (p *Postgres) GetStatistics(ctx context.Context, asset assets.Asset) (*statistics.TradingSummary, error) {
	const stmt = `SELECT starting_equity, risk_free_return, trading_days_per_year FROM statistics WHERE asset = $1`

	var startingEquity, riskFree, daysPerYear float64
	row := p.q.QueryRow(ctx, stmt, asset.Symbol)
	if err := row.Scan(&startingEquity, &riskFree, &daysPerYear); err != nil {
		return nil, err
	}
	return statistics.New(asset, startingEquity, statistics.Config{
		RiskFreeReturn:     riskFree,
		TradingDaysPerYear: daysPerYear,
	}), nil
}
