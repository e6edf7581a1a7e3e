package market

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

type fakeCandleStore struct {
	candles   []assets.Candle
	fetchHits int
}

func (f *fakeCandleStore) AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error {
	f.candles = append(f.candles, candles...)
	return nil
}

func (f *fakeCandleStore) FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error) {
	f.fetchHits++
	return f.candles, nil
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestCandleCacheFetchMissesThenHits(t *testing.T) {
	store := &fakeCandleStore{candles: []assets.Candle{{Close: 100}, {Close: 101}}}
	cache := NewCandleCache(store, newTestRedis(t), time.Minute)
	asset := assets.New("BTCUSDT")
	ctx := context.Background()

	got, err := cache.FetchAllCandles(ctx, asset)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, store.fetchHits)

	got, err = cache.FetchAllCandles(ctx, asset)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, store.fetchHits, "second fetch should be served from cache")
}

func TestCandleCacheAddInvalidatesCache(t *testing.T) {
	store := &fakeCandleStore{candles: []assets.Candle{{Close: 100}}}
	cache := NewCandleCache(store, newTestRedis(t), time.Minute)
	asset := assets.New("BTCUSDT")
	ctx := context.Background()

	_, err := cache.FetchAllCandles(ctx, asset)
	require.NoError(t, err)

	require.NoError(t, cache.AddCandles(ctx, asset, []assets.Candle{{Close: 105}}))

	got, err := cache.FetchAllCandles(ctx, asset)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, store.fetchHits, "invalidation should force a re-fetch")
}

func TestCandleCacheNilRedisPassesThrough(t *testing.T) {
	store := &fakeCandleStore{candles: []assets.Candle{{Close: 1}}}
	cache := NewCandleCache(store, nil, time.Minute)

	got, err := cache.FetchAllCandles(context.Background(), assets.New("BTCUSDT"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, cache.Health(context.Background()))
}
