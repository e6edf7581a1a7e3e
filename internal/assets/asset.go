// Package assets defines the identity and market-data types shared across the
// trading pipeline: the tradable Asset, Side, Candle, Trade and OrderBookL1.
// The MarketEvent envelope that wraps them lives in package events.
package assets

import "fmt"

// Asset identifies a tradable symbol, e.g. "BTCUSDT". Assets compare and hash
// by their Symbol, so an Asset is safe to use as a map key.
type Asset struct {
	Symbol string
}

// New returns an Asset for the given exchange symbol.
func New(symbol string) Asset {
	return Asset{Symbol: symbol}
}

func (a Asset) String() string {
	return a.Symbol
}

// Less provides a total order over Assets, used when a deterministic
// iteration order is required (e.g. session summary tables).
func (a Asset) Less(other Asset) bool {
	return a.Symbol < other.Symbol
}

// Side denotes the directional exposure of a Position.
type Side int

const (
	// SideBuy is a long entry.
	SideBuy Side = iota
	// SideSell is a short entry.
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}
