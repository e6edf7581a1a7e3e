package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// CandleStore is the subset of storage.Store a CandleCache fronts.
type CandleStore interface {
	AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error
	FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error)
}

// CandleCache fronts a CandleStore with Redis, so repeated backtest runs
// over the same asset window don't re-hit Postgres for every history
// prefetch. Reads are cache-aside; writes are write-through and also
// invalidate the cached entry so the next read picks up the new bars.
type CandleCache struct {
	store CandleStore
	redis *redis.Client
	ttl   time.Duration
}

// NewCandleCache wraps store with an optional Redis cache. A nil redis
// client disables caching entirely; every call passes through to store.
func NewCandleCache(store CandleStore, redisClient *redis.Client, ttl time.Duration) *CandleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CandleCache{store: store, redis: redisClient, ttl: ttl}
}

// FetchAllCandles returns the cached candle history for asset, falling
// back to the backing store on a cache miss or Redis error.
func (c *CandleCache) FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error) {
	if c.redis == nil {
		return c.store.FetchAllCandles(ctx, asset)
	}

	key := c.key(asset)
	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var candles []assets.Candle
		if unmarshalErr := json.Unmarshal([]byte(cached), &candles); unmarshalErr == nil {
			log.Debug().Str("asset", asset.Symbol).Int("count", len(candles)).Msg("market: candle cache hit")
			return candles, nil
		}
		log.Warn().Err(err).Str("asset", asset.Symbol).Msg("market: failed to unmarshal cached candles, refetching")
	case err != redis.Nil:
		log.Warn().Err(err).Str("asset", asset.Symbol).Msg("market: redis error during candle cache lookup")
	}

	candles, err := c.store.FetchAllCandles(ctx, asset)
	if err != nil {
		return nil, err
	}
	c.set(ctx, asset, candles)
	return candles, nil
}

// AddCandles persists candles to the backing store, then deletes the
// cache entry so the next FetchAllCandles re-reads the store and reflects them.
func (c *CandleCache) AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error {
	if err := c.store.AddCandles(ctx, asset, candles); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.Del(ctx, c.key(asset)).Err(); err != nil {
			log.Warn().Err(err).Str("asset", asset.Symbol).Msg("market: failed to invalidate candle cache")
		}
	}
	return nil
}

func (c *CandleCache) set(ctx context.Context, asset assets.Asset, candles []assets.Candle) {
	data, err := json.Marshal(candles)
	if err != nil {
		log.Warn().Err(err).Str("asset", asset.Symbol).Msg("market: failed to marshal candles for cache")
		return
	}
	if err := c.redis.Set(ctx, c.key(asset), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("asset", asset.Symbol).Msg("market: failed to cache candles")
	}
}

func (c *CandleCache) key(asset assets.Asset) string {
	return fmt.Sprintf("meshtrader:candles:%s", asset.Symbol)
}

// Health checks the Redis connection backing the cache, if any.
func (c *CandleCache) Health(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("market: redis unhealthy: %w", err)
	}
	return nil
}
