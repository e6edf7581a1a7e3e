package ledger

import (
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// UpdateFromMarket marks the held position (if any) to the incoming market
// tick, returning the resulting PositionUpdate.
func (l *Ledger) UpdateFromMarket(market events.MarketEvent) (position.Update, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	posID := position.ID(l.coreID, market.Asset)
	pos, ok := l.open[posID]
	if !ok {
		return position.Update{}, false
	}

	update, ok := pos.Update(market)
	if !ok {
		return position.Update{}, false
	}
	l.open[posID] = pos
	return update, true
}
