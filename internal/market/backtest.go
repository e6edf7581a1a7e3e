package market

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
)

// CandleSource loads a full stored candle history for an asset. It is
// satisfied by storage.Store and by CandleCache.
type CandleSource interface {
	FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error)
}

// BacktestSignaler is the strategy's batch entrypoint, run once up front
// over the whole replay window so a backtest never calls out to an
// external model per-tick.
type BacktestSignaler interface {
	GenerateBacktestSignals(ctx context.Context, asset assets.Asset, candles []assets.Candle, bufferN int) ([]*events.Signal, error)
}

// StartBacktest loads the last mode.LastN stored candles for asset,
// pre-computes a signal per post-warm-up candle via strat, then replays
// them in time order as BacktestCandle MarketEvents. The first
// mode.BufferN candles are consumed as warm-up and never emitted.
func StartBacktest(ctx context.Context, candles CandleSource, strat BacktestSignaler, asset assets.Asset, mode Mode, log zerolog.Logger) (*Feed, error) {
	all, err := candles.FetchAllCandles(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("market: fetch candle history: %w", err)
	}
	if len(all) > mode.LastN {
		all = all[len(all)-mode.LastN:]
	}
	if len(all) <= mode.BufferN {
		return nil, fmt.Errorf("market: only %d candles available, need more than buffer_n=%d", len(all), mode.BufferN)
	}

	signals, err := strat.GenerateBacktestSignals(ctx, asset, all, mode.BufferN)
	if err != nil {
		return nil, fmt.Errorf("market: generate backtest signals: %w", err)
	}
	if len(signals) == 0 {
		log.Error().Str("asset", asset.Symbol).Msg("market: strategy produced no backtest signals, terminating stream")
		return nil, fmt.Errorf("market: no backtest signals produced for %s", asset.Symbol)
	}

	feed := newFeed()
	go func() {
		defer feed.close()
		for i := mode.BufferN; i < len(all); i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			idx := i - mode.BufferN
			if idx >= len(signals) {
				break
			}
			feed.pushNext(events.NewBacktestCandleEvent(asset, all[i], signals[idx]))
		}
	}()
	return feed, nil
}
