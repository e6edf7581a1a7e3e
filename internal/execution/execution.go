// Package execution turns an OrderEvent into a FillEvent. This core never
// partially fills or slips an order: the entire signed quantity is assumed
// filled at the order's referenced close, and slippage is a zero-valued
// hook left for a future execution collaborator.
package execution

import (
	"time"

	"github.com/ajitpratap0/meshtrader/internal/events"
)

// Execution applies a configured fee schedule to orders.
type Execution struct {
	fees events.Fees
}

// New returns an Execution charging the given fee schedule on every fill.
func New(fees events.Fees) *Execution {
	return &Execution{fees: fees}
}

// Now is overridable in tests so GenerateFill's live-mode timestamp is
// deterministic.
var Now = time.Now

// GenerateFill converts order into a FillEvent. When live is true the fill
// is timestamped at the moment of execution; otherwise it carries the
// order's own time, as in a backtest replay.
func (e *Execution) GenerateFill(order events.OrderEvent, live bool) events.FillEvent {
	t := order.Time
	if live {
		t = Now()
	}

	fill, err := events.NewFillBuilder().
		Time(t).
		Asset(order.Asset).
		MarketMeta(order.MarketMeta).
		Decision(order.Decision).
		Quantity(order.Quantity).
		Fees(e.fees).
		Build()
	if err != nil {
		// Time and Asset are always set above; Build only fails when one of
		// them is missing.
		panic(err)
	}
	return fill
}
