package events

import (
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// MarketDetailKind tags which variant of MarketEvent.Detail is populated.
type MarketDetailKind string

const (
	DetailTrade           MarketDetailKind = "trade"
	DetailCandle          MarketDetailKind = "candle"
	DetailBacktestCandle  MarketDetailKind = "backtest_candle"
	DetailOrderBookL1     MarketDetailKind = "order_book_l1"
)

// MarketEvent is the envelope a MarketFeed pushes into a Trader's event
// queue. Exactly one of the Kind-tagged fields is populated, matching the
// Trade/Candle/BacktestCandle/OrderBookL1 variants of the source data
// model. BacktestSignal is only meaningful when Kind is DetailBacktestCandle,
// and may be nil even then (no pre-computed signal for that tick).
type MarketEvent struct {
	Time  time.Time
	Asset assets.Asset
	Kind  MarketDetailKind

	Trade          assets.Trade
	Candle         assets.Candle
	OrderBook      assets.OrderBookL1
	BacktestSignal *Signal
}

// NewTradeEvent builds a trade-tick MarketEvent.
func NewTradeEvent(asset assets.Asset, t time.Time, trade assets.Trade) MarketEvent {
	return MarketEvent{Time: t, Asset: asset, Kind: DetailTrade, Trade: trade}
}

// NewCandleEvent builds a live-candle MarketEvent.
func NewCandleEvent(asset assets.Asset, candle assets.Candle) MarketEvent {
	return MarketEvent{Time: candle.CloseTime, Asset: asset, Kind: DetailCandle, Candle: candle}
}

// NewBacktestCandleEvent builds a replayed candle MarketEvent, optionally
// carrying a pre-computed Signal for that tick.
func NewBacktestCandleEvent(asset assets.Asset, candle assets.Candle, signal *Signal) MarketEvent {
	return MarketEvent{Time: candle.CloseTime, Asset: asset, Kind: DetailBacktestCandle, Candle: candle, BacktestSignal: signal}
}

// NewOrderBookEvent builds a top-of-book MarketEvent.
func NewOrderBookEvent(asset assets.Asset, t time.Time, book assets.OrderBookL1) MarketEvent {
	return MarketEvent{Time: t, Asset: asset, Kind: DetailOrderBookL1, OrderBook: book}
}

// Close extracts the reference price used to mark a Position to market:
// trade price, candle close, or the order book's volume-weighted mid.
func (m MarketEvent) Close() (float64, bool) {
	switch m.Kind {
	case DetailTrade:
		return m.Trade.Price, true
	case DetailCandle, DetailBacktestCandle:
		return m.Candle.Close, true
	case DetailOrderBookL1:
		return m.OrderBook.VolumeWeightedMidPrice(), true
	default:
		return 0, false
	}
}
