package market

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
)

// KlineSource is the subset of exchange.KlineClient a live Feed needs. It is
// declared here, not in internal/exchange, so tests substitute a fake
// without importing go-binance.
type KlineSource interface {
	StreamKlines(ctx context.Context, symbol string) (<-chan assets.Candle, <-chan error, func(), error)
}

// StartLive subscribes to asset's kline stream and pushes a Candle
// MarketEvent for every closed bar. Parse errors surface as Unhealthy
// ticks via the source; socket errors are logged and the loop continues
// until the source closes its channel.
func StartLive(ctx context.Context, source KlineSource, asset assets.Asset, log zerolog.Logger) (*Feed, error) {
	candles, errs, stop, err := source.StreamKlines(ctx, asset.Symbol)
	if err != nil {
		return nil, err
	}

	feed := newFeed()
	go func() {
		defer feed.close()
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-candles:
				if !ok {
					return
				}
				feed.pushNext(events.NewCandleEvent(asset, c))
			case e, ok := <-errs:
				if !ok {
					continue
				}
				log.Warn().Err(e).Str("asset", asset.Symbol).Msg("market: kline stream error, continuing")
				feed.pushUnhealthy()
			}
		}
	}()
	return feed, nil
}
