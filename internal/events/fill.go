package events

import (
	"errors"
	"math"
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// ErrFillBuilderIncomplete is returned when a FillEvent is built without one
// of its required fields.
var ErrFillBuilderIncomplete = errors.New("events: fill builder incomplete")

// FeeRate is a proportional fee, e.g. 0.001 for 10 bps.
type FeeRate float64

// FeeAmount is an absolute fee in quote currency.
type FeeAmount float64

// Fees bundles the exchange's proportional fee with a slippage hook. The
// core never sets Slippage to anything but zero; it exists so an execution
// collaborator can plug in a model without changing FillEvent's shape.
type Fees struct {
	Exchange  FeeRate
	Slippage  FeeAmount
}

// Total returns the total fee charged against a gross fill value.
func (f Fees) Total(gross float64) float64 {
	return float64(f.Exchange)*gross + float64(f.Slippage)
}

// FillEvent is the realised outcome of an OrderEvent.
type FillEvent struct {
	Time            time.Time
	Asset           assets.Asset
	MarketMeta      MarketMeta
	Decision        Decision
	Quantity        float64
	FillValueGross  float64
	Fees            Fees
}

// FillBuilder constructs a FillEvent, mirroring the required-field
// validation the teacher's other builders perform.
type FillBuilder struct {
	fill     FillEvent
	hasTime  bool
	hasAsset bool
}

func NewFillBuilder() *FillBuilder {
	return &FillBuilder{}
}

func (b *FillBuilder) Time(t time.Time) *FillBuilder {
	b.fill.Time = t
	b.hasTime = true
	return b
}

func (b *FillBuilder) Asset(a assets.Asset) *FillBuilder {
	b.fill.Asset = a
	b.hasAsset = true
	return b
}

func (b *FillBuilder) MarketMeta(m MarketMeta) *FillBuilder {
	b.fill.MarketMeta = m
	return b
}

func (b *FillBuilder) Decision(d Decision) *FillBuilder {
	b.fill.Decision = d
	return b
}

func (b *FillBuilder) Quantity(q float64) *FillBuilder {
	b.fill.Quantity = q
	return b
}

func (b *FillBuilder) Fees(f Fees) *FillBuilder {
	b.fill.Fees = f
	return b
}

// Build computes FillValueGross from Quantity and MarketMeta.Close and
// returns the completed FillEvent, or ErrFillBuilderIncomplete if Time or
// Asset was never set.
func (b *FillBuilder) Build() (FillEvent, error) {
	if !b.hasTime || !b.hasAsset {
		return FillEvent{}, ErrFillBuilderIncomplete
	}
	b.fill.FillValueGross = math.Abs(b.fill.Quantity) * b.fill.MarketMeta.Close
	return b.fill, nil
}
