package ledger

import (
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// GenerateOrder turns a Signal into a sized OrderEvent, or nil when no cash
// is available for a new entry, the signal doesn't match the held
// position's close decision, or the risk hook vetoes it.
func (l *Ledger) GenerateOrder(signal events.Signal) *events.OrderEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	posID := position.ID(l.coreID, signal.Asset)
	pos, hasOpen := l.open[posID]

	if !hasOpen && l.balance.Available == 0 {
		return nil
	}

	decision, strength, ok := parseSignal(hasOpen, pos, signal.Signals)
	if !ok {
		return nil
	}

	order := events.OrderEvent{
		Time:       signal.Time,
		Asset:      signal.Asset,
		Decision:   decision,
		MarketMeta: signal.MarketMeta,
		Quantity:   1,
	}
	order = l.allocate(order, hasOpen, pos, strength)

	sized, keep := l.risk.Evaluate(order)
	if !keep {
		return nil
	}
	return &sized
}

// GenerateExitOrder builds the closing order for a ForceExit command, or
// nil if the asset has no open position.
func (l *Ledger) GenerateExitOrder(forceExit ForceExit) *events.OrderEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	posID := position.ID(l.coreID, forceExit.Asset)
	pos, ok := l.open[posID]
	if !ok {
		return nil
	}

	var decision events.Decision
	switch pos.Side.String() {
	case "Buy":
		decision = events.CloseLong
	case "Sell":
		decision = events.CloseShort
	}

	return &events.OrderEvent{
		Time:       forceExit.Time,
		Asset:      forceExit.Asset,
		Decision:   decision,
		MarketMeta: events.MarketMeta{Close: pos.CurrentSymbolPrice, Time: forceExit.Time},
		Quantity:   -pos.Quantity,
	}
}

// parseSignal resolves which Decision/SignalStrength a Signal contributes,
// given whether the asset already has an open position.
func parseSignal(hasOpen bool, pos position.Position, signals map[events.Decision]events.SignalStrength) (events.Decision, events.SignalStrength, bool) {
	if hasOpen {
		var want events.Decision
		switch pos.Side.String() {
		case "Buy":
			want = events.CloseLong
		case "Sell":
			want = events.CloseShort
		}
		strength, ok := signals[want]
		return want, strength, ok
	}

	longStrength, hasLong := signals[events.Long]
	shortStrength, hasShort := signals[events.Short]
	if hasLong == hasShort {
		return 0, 0, false
	}
	if hasLong {
		return events.Long, longStrength, true
	}
	return events.Short, shortStrength, true
}

// allocate sizes an order: new entries size from the allocator's unit
// scaled by signal strength, exits always close the full open quantity.
func (l *Ledger) allocate(order events.OrderEvent, hasOpen bool, pos position.Position, strength events.SignalStrength) events.OrderEvent {
	if order.Decision.IsExit() {
		order.Quantity = -pos.Quantity
		return order
	}

	unit := l.allocator.Unit(order.MarketMeta.Close)
	switch order.Decision {
	case events.Long:
		order.Quantity = unit * float64(strength)
	case events.Short:
		order.Quantity = -unit * float64(strength)
	}
	return order
}
