package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// klineInterval is the fixed bar size the MarketFeed trades on.
const klineInterval = "1m"

// KlineClient wraps go-binance's WS kline stream and REST kline history
// endpoint behind the types the trading core understands, so a MarketFeed
// never imports binance directly.
type KlineClient struct {
	rest    *binance.Client
	limiter *rate.Limiter
}

// NewKlineClient builds a client for public market data. Empty keys are
// valid: klines are a public endpoint.
func NewKlineClient(apiKey, secretKey string) *KlineClient {
	return &KlineClient{
		rest:    binance.NewClient(apiKey, secretKey),
		limiter: rate.NewLimiter(rate.Every(time.Second/10), 10),
	}
}

// StreamKlines subscribes to a 1-minute kline stream for symbol and decodes
// each closed bar into a Candle, pushed on the returned channel. The
// returned stop func closes the underlying WS connection. Only closed
// candles (IsFinal) are forwarded; the caller never sees a partial bar.
func (c *KlineClient) StreamKlines(ctx context.Context, symbol string) (<-chan assets.Candle, <-chan error, func(), error) {
	candles := make(chan assets.Candle)
	errs := make(chan error, 1)

	handler := func(event *binance.WsKlineEvent) {
		if !event.Kline.IsFinal {
			return
		}
		candle, err := decodeKline(event.Kline.OpenTime, event.Kline.CloseTime, event.Kline.Open, event.Kline.High, event.Kline.Low, event.Kline.Close, event.Kline.Volume, event.Kline.TradeNum)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("exchange: malformed kline frame, skipping")
			return
		}
		select {
		case candles <- candle:
		case <-ctx.Done():
		}
	}
	errHandler := func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	doneC, stopC, err := binance.WsKlineServe(symbol, klineInterval, handler, errHandler)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("exchange: subscribe kline stream: %w", err)
	}

	stop := func() { close(stopC) }
	go func() {
		<-doneC
		close(candles)
	}()

	return candles, errs, stop, nil
}

// FetchKlineHistory pages through REST kline history until limit candles
// have been retrieved (or the exchange returns fewer than requested,
// signalling the beginning of its history), rate-limited to stay well under
// Binance's request weight budget.
func (c *KlineClient) FetchKlineHistory(ctx context.Context, symbol string, limit int) ([]assets.Candle, error) {
	const pageSize = 1000
	candles := make([]assets.Candle, 0, limit)

	endTime := int64(0)
	for len(candles) < limit {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		want := limit - len(candles)
		if want > pageSize {
			want = pageSize
		}

		svc := c.rest.NewKlinesService().Symbol(symbol).Interval(klineInterval).Limit(want)
		if endTime > 0 {
			svc = svc.EndTime(endTime)
		}
		page, err := svc.Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("exchange: fetch kline history: %w", err)
		}
		if len(page) == 0 {
			break
		}

		decoded := make([]assets.Candle, 0, len(page))
		for _, k := range page {
			candle, err := decodeKlineStrings(k.OpenTime, k.CloseTime, k.Open, k.High, k.Low, k.Close, k.Volume, k.TradeNum)
			if err != nil {
				log.Warn().Err(err).Str("symbol", symbol).Msg("exchange: malformed REST kline, skipping")
				continue
			}
			decoded = append(decoded, candle)
		}

		// Prepend: Binance returns ascending time order per page, but we
		// page backwards from "now", so earlier pages arrive after later ones.
		candles = append(decoded, candles...)
		endTime = page[0].OpenTime - 1

		if len(page) < want {
			break
		}
	}

	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func decodeKline(openMs, closeMs int64, open, high, low, closePrice, volume string, tradeCount int64) (assets.Candle, error) {
	return decodeKlineStrings(openMs, closeMs, open, high, low, closePrice, volume, tradeCount)
}

func decodeKlineStrings(openMs, closeMs int64, open, high, low, closePrice, volume string, tradeCount int64) (assets.Candle, error) {
	o, err := strconv.ParseFloat(open, 64)
	if err != nil {
		return assets.Candle{}, fmt.Errorf("parse open: %w", err)
	}
	h, err := strconv.ParseFloat(high, 64)
	if err != nil {
		return assets.Candle{}, fmt.Errorf("parse high: %w", err)
	}
	l, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return assets.Candle{}, fmt.Errorf("parse low: %w", err)
	}
	cl, err := strconv.ParseFloat(closePrice, 64)
	if err != nil {
		return assets.Candle{}, fmt.Errorf("parse close: %w", err)
	}
	v, err := strconv.ParseFloat(volume, 64)
	if err != nil {
		return assets.Candle{}, fmt.Errorf("parse volume: %w", err)
	}
	return assets.Candle{
		OpenTime:   time.UnixMilli(openMs),
		CloseTime:  time.UnixMilli(closeMs),
		Open:       o,
		High:       h,
		Low:        l,
		Close:      cl,
		Volume:     v,
		TradeCount: tradeCount,
	}, nil
}
