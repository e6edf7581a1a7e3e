// Package position implements the lifecycle of a single directional
// exposure: entry from a Fill, mark-to-market updates on every tick, and
// exit into realised PnL. All arithmetic here is grounded in the original
// engine's position accounting (enter/current/exit gross values, the
// doubled entry fee in unrealised PnL, and the asymmetric Buy/Sell realised
// PnL formulas).
package position

import (
	"math"
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
)

// ID returns the unique position identifier for a (core session, asset)
// pair. At most one open Position exists per ID at any time.
func ID(coreID string, asset assets.Asset) string {
	return coreID + "_" + asset.Symbol
}

// Meta carries the timestamps and exit snapshot that don't participate in
// PnL arithmetic directly but are needed by statistics and reporting.
type Meta struct {
	EnterTime   time.Time
	UpdateTime  time.Time
	ExitBalance *Balance
}

// Position is an open or closed directional exposure with full PnL
// accounting, per (core session, asset).
type Position struct {
	ID    string
	Asset assets.Asset
	Side  assets.Side

	// Quantity preserves the sign of the entering fill: positive for Buy,
	// negative for Sell.
	Quantity float64

	EnterAvgPriceGross float64
	EnterValueGross    float64
	EnterFeesTotal     float64

	ExitAvgPriceGross float64
	ExitValueGross    float64
	ExitFeesTotal     float64

	CurrentSymbolPrice float64
	CurrentValueGross  float64

	UnrealisedProfitLoss float64
	RealisedProfitLoss   float64
	ProfitLossReturn     float64

	Meta Meta
}

// Update is the delta a mark-to-market tick produces for the event sink.
type Update struct {
	PositionID           string
	UpdateTime           time.Time
	CurrentSymbolPrice   float64
	CurrentValueGross    float64
	UnrealisedProfitLoss float64
}

// Exit is the terminal snapshot of a Position at the moment it closes.
type Exit struct {
	PositionID string
	Asset      assets.Asset
	Side       assets.Side
	Quantity   float64

	EnterAvgPriceGross float64
	ExitAvgPriceGross  float64
	EnterFeesTotal     float64
	ExitFeesTotal      float64
	EnterValueGross    float64
	ExitValueGross     float64

	RealisedProfitLoss float64
	ProfitLossReturn   float64

	EnterTime time.Time
	ExitTime  time.Time

	ExitBalance Balance
}

// Enter constructs a Position from the fill that opened it.
func Enter(coreID string, fill events.FillEvent) (Position, error) {
	if !fill.Decision.IsEntry() {
		return Position{}, ErrCannotEnterPositionWithExitFill
	}

	side, err := entrySide(fill.Decision, fill.Quantity)
	if err != nil {
		return Position{}, err
	}

	enterFeesTotal := fill.Fees.Total(fill.FillValueGross)
	enterAvgPriceGross := math.Abs(fill.FillValueGross / fill.Quantity)

	return Position{
		ID:                   ID(coreID, fill.Asset),
		Asset:                fill.Asset,
		Side:                 side,
		Quantity:             fill.Quantity,
		EnterAvgPriceGross:   enterAvgPriceGross,
		EnterValueGross:      fill.FillValueGross,
		EnterFeesTotal:       enterFeesTotal,
		CurrentSymbolPrice:   enterAvgPriceGross,
		CurrentValueGross:    fill.FillValueGross,
		UnrealisedProfitLoss: -2 * enterFeesTotal,
		Meta: Meta{
			EnterTime:  fill.Time,
			UpdateTime: fill.Time,
		},
	}, nil
}

// AsExit rebuilds the Exit snapshot for a Position already mutated by
// Exit, used when replaying the ledger's closed-position history (e.g. to
// seed a cross-asset aggregate statistic) without re-deriving it from a
// FillEvent.
func (p Position) AsExit() Exit {
	var exitBalance Balance
	if p.Meta.ExitBalance != nil {
		exitBalance = *p.Meta.ExitBalance
	}
	return Exit{
		PositionID:         p.ID,
		Asset:              p.Asset,
		Side:               p.Side,
		Quantity:           p.Quantity,
		EnterAvgPriceGross: p.EnterAvgPriceGross,
		ExitAvgPriceGross:  p.ExitAvgPriceGross,
		EnterFeesTotal:     p.EnterFeesTotal,
		ExitFeesTotal:      p.ExitFeesTotal,
		EnterValueGross:    p.EnterValueGross,
		ExitValueGross:     p.ExitValueGross,
		RealisedProfitLoss: p.RealisedProfitLoss,
		ProfitLossReturn:   p.ProfitLossReturn,
		EnterTime:          p.Meta.EnterTime,
		ExitTime:           p.Meta.UpdateTime,
		ExitBalance:        exitBalance,
	}
}

func entrySide(decision events.Decision, quantity float64) (assets.Side, error) {
	switch {
	case decision == events.Long && quantity > 0:
		return assets.SideBuy, nil
	case decision == events.Short && quantity < 0:
		return assets.SideSell, nil
	default:
		return 0, ErrParseEntrySide
	}
}

// Update marks the Position to market from one MarketEvent, returning the
// delta for the event sink. It returns ok=false when the event carries no
// usable price (should not happen for the variants this engine emits).
func (p *Position) Update(market events.MarketEvent) (Update, bool) {
	close, ok := market.Close()
	if !ok {
		return Update{}, false
	}

	p.CurrentSymbolPrice = close
	p.CurrentValueGross = close * math.Abs(p.Quantity)

	switch p.Side {
	case assets.SideBuy:
		p.UnrealisedProfitLoss = p.CurrentValueGross - p.EnterValueGross - 2*p.EnterFeesTotal
	case assets.SideSell:
		p.UnrealisedProfitLoss = p.EnterValueGross - p.CurrentValueGross - 2*p.EnterFeesTotal
	}
	p.Meta.UpdateTime = market.Time

	return Update{
		PositionID:           p.ID,
		UpdateTime:           p.Meta.UpdateTime,
		CurrentSymbolPrice:   p.CurrentSymbolPrice,
		CurrentValueGross:    p.CurrentValueGross,
		UnrealisedProfitLoss: p.UnrealisedProfitLoss,
	}, true
}

// Exit closes the Position against the exiting fill, folding the realised
// PnL into balanceIn (which the caller owns and persists) and returning the
// terminal snapshot for statistics and the event sink.
func (p *Position) Exit(balanceIn Balance, fill events.FillEvent) (Exit, error) {
	if !fill.Decision.IsExit() {
		return Exit{}, ErrCannotExitPositionWithEntryFill
	}

	exitFeesTotal := fill.Fees.Total(fill.FillValueGross)
	exitAvgPriceGross := math.Abs(fill.FillValueGross / fill.Quantity)
	exitValueGross := fill.FillValueGross

	var realised float64
	switch p.Side {
	case assets.SideBuy:
		realised = exitValueGross - p.EnterValueGross - (p.EnterFeesTotal + exitFeesTotal)
	case assets.SideSell:
		realised = p.EnterValueGross - exitValueGross - (p.EnterFeesTotal + exitFeesTotal)
	}

	p.ExitAvgPriceGross = exitAvgPriceGross
	p.ExitValueGross = exitValueGross
	p.ExitFeesTotal = exitFeesTotal
	p.RealisedProfitLoss = realised
	p.UnrealisedProfitLoss = realised
	p.ProfitLossReturn = realised / p.EnterValueGross
	p.Meta.UpdateTime = fill.Time

	balanceIn.Total += realised
	balanceIn.Time = fill.Time
	p.Meta.ExitBalance = &balanceIn

	return Exit{
		PositionID:         p.ID,
		Asset:              p.Asset,
		Side:               p.Side,
		Quantity:           p.Quantity,
		EnterAvgPriceGross: p.EnterAvgPriceGross,
		ExitAvgPriceGross:  exitAvgPriceGross,
		EnterFeesTotal:     p.EnterFeesTotal,
		ExitFeesTotal:      exitFeesTotal,
		EnterValueGross:    p.EnterValueGross,
		ExitValueGross:     exitValueGross,
		RealisedProfitLoss: realised,
		ProfitLossReturn:   p.ProfitLossReturn,
		EnterTime:          p.Meta.EnterTime,
		ExitTime:           fill.Time,
		ExitBalance:        balanceIn,
	}, nil
}
