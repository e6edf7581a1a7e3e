// Package ledger implements the Portfolio: the single consistency boundary
// for cash balance, open positions, exited positions, and per-asset
// statistics. All mutating operations acquire one mutex for the duration of
// the call. When a store is configured, Bootstrap and UpdateFromFill make
// their persistence calls to it while that mutex is held.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/position"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/storage"
)

// FillOutcomeKind tags whether a processed fill opened or closed a position.
type FillOutcomeKind int

const (
	FillOutcomeEntry FillOutcomeKind = iota
	FillOutcomeExit
)

// FillOutcome is the ordered result of UpdateFromFill: exactly one of
// PositionNew/PositionExit is set, matching the [PositionNew|PositionExit,
// Balance] event ordering the Trader fans out to its sink.
type FillOutcome struct {
	Kind         FillOutcomeKind
	PositionNew  *position.Position
	PositionExit *position.Exit
	Balance      position.Balance
}

// ForceExit is the synthetic signal a Trader enqueues on ExitPosition
// commands and on a finished feed with an open position.
type ForceExit struct {
	Time  time.Time
	Asset assets.Asset
}

// Ledger is the Portfolio: it owns every Balance, Position, and
// TradingSummary for one core session, behind a single mutex.
type Ledger struct {
	mu sync.Mutex

	coreID    string
	fees      events.Fees
	allocator Allocator
	risk      RiskEvaluator
	statCfg   statistics.Config
	store     storage.Store
	log       zerolog.Logger

	balance position.Balance
	open    map[string]position.Position
	closed  []position.Position
	stats   map[assets.Asset]*statistics.TradingSummary
}

// Bootstrap seeds the starting Balance and one TradingSummary per asset.
// Best-effort persistence failures are logged, not returned: a storage
// outage at startup must not prevent the ledger from trading in memory.
func (l *Ledger) Bootstrap(ctx context.Context, startingCash float64, assetList []assets.Asset) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance = position.Balance{Time: time.Now().UTC(), Total: startingCash, Available: startingCash}
	for _, a := range assetList {
		l.stats[a] = statistics.New(a, startingCash, l.statCfg)
	}

	if l.store == nil {
		return
	}
	if err := l.store.SetBalance(ctx, l.coreID, l.balance); err != nil {
		l.log.Warn().Err(err).Msg("bootstrap: persist starting balance")
	}
	for a, s := range l.stats {
		if err := l.store.SetStatistics(ctx, a, s); err != nil {
			l.log.Warn().Err(err).Str("asset", a.String()).Msg("bootstrap: persist starting statistics")
		}
	}
}

// Statistics returns the TradingSummary for asset, if one was bootstrapped.
func (l *Ledger) Statistics(asset assets.Asset) (*statistics.TradingSummary, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stats[asset]
	return s, ok
}

// AllStatistics returns a snapshot of every asset's TradingSummary.
func (l *Ledger) AllStatistics() map[assets.Asset]*statistics.TradingSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[assets.Asset]*statistics.TradingSummary, len(l.stats))
	for a, s := range l.stats {
		out[a] = s
	}
	return out
}

// ClosedPositions returns every position this ledger has exited.
func (l *Ledger) ClosedPositions() []position.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]position.Position, len(l.closed))
	copy(out, l.closed)
	return out
}

// OpenPosition reports whether asset currently has an open position, and
// returns it.
func (l *Ledger) OpenPosition(asset assets.Asset) (position.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.open[position.ID(l.coreID, asset)]
	return pos, ok
}

// ResetStatisticsStartTime re-anchors every asset's statistics start time,
// used by Core after candle prefetch discovers the earliest open_time.
func (l *Ledger) ResetStatisticsStartTime(t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.stats {
		s.ResetStartTime(t)
	}
}

// ResetAssetStatisticsStartTime re-anchors one asset's statistics, used by
// a Trader on its first backtest tick.
func (l *Ledger) ResetAssetStatisticsStartTime(asset assets.Asset, t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.stats[asset]; ok {
		s.ResetStartTime(t)
	}
}
