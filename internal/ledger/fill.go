package ledger

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// UpdateFromFill applies a FillEvent's outcome — opening or closing a
// position — and returns the ordered events the Trader must fan out:
// [PositionNew|PositionExit], Balance.
func (l *Ledger) UpdateFromFill(ctx context.Context, fill events.FillEvent) (FillOutcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balance
	balance.Time = fill.Time

	posID := position.ID(l.coreID, fill.Asset)
	pos, hasOpen := l.open[posID]

	var outcome FillOutcome
	if hasOpen {
		exit, err := pos.Exit(balance, fill)
		if err != nil {
			return FillOutcome{}, err
		}

		newBalance := exit.ExitBalance
		newBalance.Available += pos.EnterValueGross + exit.RealisedProfitLoss + pos.EnterFeesTotal

		if stat, ok := l.stats[fill.Asset]; ok {
			stat.Update(exit)
		}
		delete(l.open, posID)
		l.closed = append(l.closed, pos)

		outcome = FillOutcome{Kind: FillOutcomeExit, PositionExit: &exit, Balance: newBalance}
		l.balance = newBalance

		if l.store != nil {
			if err := l.store.SetExitedPosition(ctx, l.coreID, pos); err != nil {
				l.log.Warn().Err(err).Str("position", pos.ID).Msg("persist exited position")
			}
			if err := l.store.RemovePosition(ctx, posID); err != nil {
				l.log.Warn().Err(err).Str("position", pos.ID).Msg("remove open position")
			}
		}
	} else {
		newPos, err := position.Enter(l.coreID, fill)
		if err != nil {
			return FillOutcome{}, err
		}

		balance.Available += -newPos.EnterValueGross - newPos.EnterFeesTotal
		l.open[posID] = newPos

		outcome = FillOutcome{Kind: FillOutcomeEntry, PositionNew: &newPos, Balance: balance}
		l.balance = balance

		if l.store != nil {
			if err := l.store.SetOpenPosition(ctx, newPos); err != nil {
				l.log.Warn().Err(err).Str("position", newPos.ID).Msg("persist new position")
			}
		}
	}

	if l.store != nil {
		if err := l.store.SetBalance(ctx, l.coreID, l.balance); err != nil {
			l.log.Warn().Err(err).Msg("persist balance")
		}
	}

	return outcome, nil
}
