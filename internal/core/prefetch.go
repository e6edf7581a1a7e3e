package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// HistoryFetcher pages an exchange's REST kline history. Satisfied by
// exchange.KlineClient.
type HistoryFetcher interface {
	FetchKlineHistory(ctx context.Context, symbol string, limit int) ([]assets.Candle, error)
}

// CandleWriter is the subset of storage.Store a prefetch writes to.
type CandleWriter interface {
	AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error
}

const candlesPerDay = 24 * 60 // one-minute bars

// prefetchHistory fetches prefetchDays worth of 1-minute candles for every
// asset concurrently, then persists each asset's candles serially so the
// store never sees overlapping writers. It returns the fetched candles keyed
// by asset (nil when prefetchDays <= 0); earliestOpenTime derives from that
// map the open_time used to re-anchor statistics.
func prefetchHistory(ctx context.Context, fetcher HistoryFetcher, store CandleWriter, assetList []assets.Asset, prefetchDays int) (map[assets.Asset][]assets.Candle, error) {
	if prefetchDays <= 0 {
		return nil, nil
	}
	limit := prefetchDays * candlesPerDay

	results := make([][]assets.Candle, len(assetList))
	group, gctx := errgroup.WithContext(ctx)
	for i, a := range assetList {
		i, a := i, a
		group.Go(func() error {
			candles, err := fetcher.FetchKlineHistory(gctx, a.Symbol, limit)
			if err != nil {
				return fmt.Errorf("core: prefetch %s: %w", a.Symbol, err)
			}
			results[i] = candles
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	byAsset := make(map[assets.Asset][]assets.Candle, len(assetList))
	for i, a := range assetList {
		byAsset[a] = results[i]
		if err := store.AddCandles(ctx, a, results[i]); err != nil {
			return nil, fmt.Errorf("core: persist prefetched candles for %s: %w", a.Symbol, err)
		}
	}
	return byAsset, nil
}

// earliestOpenTime returns the minimum OpenTime across every candle in
// byAsset, and false if nothing was fetched.
func earliestOpenTime(byAsset map[assets.Asset][]assets.Candle) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, candles := range byAsset {
		for _, c := range candles {
			if !found || c.OpenTime.Before(earliest) {
				earliest = c.OpenTime
				found = true
			}
		}
	}
	return earliest, found
}
