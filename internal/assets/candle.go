package assets

import "time"

// Candle is an OHLCV bar over a fixed interval. All prices and volume are
// non-negative; CloseTime is never before OpenTime.
type Candle struct {
	OpenTime   time.Time
	CloseTime  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	TradeCount int64
}

// Trade is a single executed trade print on the exchange tape.
type Trade struct {
	ID     string
	Price  float64
	Amount float64
	Side   Side
}

// OrderBookL1 is the best bid/ask snapshot of a symbol's order book.
type OrderBookL1 struct {
	BestBidPrice float64
	BestBidQty   float64
	BestAskPrice float64
	BestAskQty   float64
}

// VolumeWeightedMidPrice returns the quantity-weighted mid price between the
// best bid and ask. If both quantities are zero it returns the simple mid.
func (b OrderBookL1) VolumeWeightedMidPrice() float64 {
	totalQty := b.BestBidQty + b.BestAskQty
	if totalQty == 0 {
		return (b.BestBidPrice + b.BestAskPrice) / 2
	}
	return (b.BestBidPrice*b.BestBidQty + b.BestAskPrice*b.BestAskQty) / totalQty
}
