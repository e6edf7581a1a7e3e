// Package trader implements the per-asset event loop: it multiplexes
// market ingestion, remote commands, signal generation, order creation,
// and fill processing into one strictly-serialized stream of Events
// published to a shared sink.
package trader

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/execution"
	"github.com/ajitpratap0/meshtrader/internal/ledger"
	"github.com/ajitpratap0/meshtrader/internal/market"
	"github.com/ajitpratap0/meshtrader/internal/strategy"
)

// FeedFactory starts the MarketFeed a Trader pulls from; Core supplies a
// closure bound to either market.StartLive or market.StartBacktest so the
// Trader itself stays mode-agnostic.
type FeedFactory func(ctx context.Context, asset assets.Asset) (*market.Feed, error)

// Config collects a Trader's required collaborators.
type Config struct {
	Asset         assets.Asset
	CommandRx     <-chan Command
	EventTx       chan<- Event
	Feed          FeedFactory
	Ledger        *ledger.Ledger
	Strategy      *strategy.Strategy
	Execution     *execution.Execution
	TradingIsLive bool
	Log           zerolog.Logger
}

// Trader runs one asset's event loop to completion.
type Trader struct {
	asset     assets.Asset
	commandRx <-chan Command
	eventTx   chan<- Event
	feedStart FeedFactory

	ledger    *ledger.Ledger
	strategy  *strategy.Strategy
	execution *execution.Execution

	tradingIsLive            bool
	backtestStatsInitialized bool

	queue []Event
	log   zerolog.Logger
}

// New validates cfg and returns a ready-to-run Trader.
func New(cfg Config) (*Trader, error) {
	if cfg.EventTx == nil || cfg.Feed == nil || cfg.Ledger == nil || cfg.Strategy == nil || cfg.Execution == nil {
		return nil, fmt.Errorf("%w: asset=%s", ErrMisconfigured, cfg.Asset)
	}
	return &Trader{
		asset:         cfg.Asset,
		commandRx:     cfg.CommandRx,
		eventTx:       cfg.EventTx,
		feedStart:     cfg.Feed,
		ledger:        cfg.Ledger,
		strategy:      cfg.Strategy,
		execution:     cfg.Execution,
		tradingIsLive: cfg.TradingIsLive,
		log:           cfg.Log.With().Str("component", "trader").Str("asset", cfg.Asset.Symbol).Logger(),
	}, nil
}

// Run drives the event loop until Terminate, a finished feed with no open
// position, context cancellation, or a fatal strategy/ledger error.
func (t *Trader) Run(ctx context.Context) error {
	feed, err := t.feedStart(ctx, t.asset)
	if err != nil {
		return fmt.Errorf("trader: start feed: %w", err)
	}

outer:
	for {
		for {
			select {
			case cmd := <-t.commandRx:
				switch cmd.Kind {
				case CommandTerminate:
					break outer
				case CommandExitPosition:
					t.enqueue(Event{Kind: EventSignalForceExit, SignalForceExit: ledger.ForceExit{Time: time.Now().UTC(), Asset: cmd.Asset}})
				}
				continue
			default:
			}
			break
		}

		tick, ok := feed.Next(ctx)
		if !ok {
			break outer
		}

		switch tick.Status {
		case market.StatusNext:
			t.publish(Event{Kind: EventMarket, Market: tick.Event})
			t.enqueue(Event{Kind: EventMarket, Market: tick.Event})

		case market.StatusUnhealthy:
			t.log.Warn().Msg("trader: feed reported unhealthy tick, continuing")
			continue

		case market.StatusFinished:
			if pos, ok := t.ledger.OpenPosition(t.asset); ok {
				t.enqueue(Event{Kind: EventSignalForceExit, SignalForceExit: ledger.ForceExit{Time: pos.Meta.UpdateTime, Asset: t.asset}})
			} else {
				break outer
			}
		}

		if err := t.drainQueue(ctx); err != nil {
			return err
		}
	}

	t.log.Info().Msg("trader: exiting")
	return nil
}

// drainQueue processes the internal work queue to empty before the loop
// pulls its next market tick.
func (t *Trader) drainQueue(ctx context.Context) error {
	for len(t.queue) > 0 {
		item := t.queue[0]
		t.queue = t.queue[1:]

		switch item.Kind {
		case EventMarket:
			if err := t.handleMarket(ctx, item.Market); err != nil {
				return err
			}

		case EventSignal:
			if order := t.ledger.GenerateOrder(item.Signal); order != nil {
				t.publish(Event{Kind: EventOrder, Order: *order})
				t.enqueue(Event{Kind: EventOrder, Order: *order})
			}

		case EventSignalForceExit:
			if order := t.ledger.GenerateExitOrder(item.SignalForceExit); order != nil {
				t.enqueue(Event{Kind: EventOrder, Order: *order})
			}

		case EventOrder:
			fill := t.execution.GenerateFill(item.Order, t.tradingIsLive)
			t.publish(Event{Kind: EventFill, Fill: fill})
			t.enqueue(Event{Kind: EventFill, Fill: fill})

		case EventFill:
			if err := t.handleFill(ctx, item.Fill); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleMarket implements the Market(m) branch of §4.7 step c: on the
// first backtest tick it re-anchors the asset's statistics start time,
// then runs the strategy and marks any held position to market.
func (t *Trader) handleMarket(ctx context.Context, m events.MarketEvent) error {
	if m.Kind == events.DetailBacktestCandle && !t.backtestStatsInitialized {
		t.ledger.ResetAssetStatisticsStartTime(t.asset, m.Candle.OpenTime)
		t.backtestStatsInitialized = true
	}

	signal, err := t.strategy.GenerateSignal(ctx, m)
	if err != nil {
		return fmt.Errorf("trader: strategy: %w", err)
	}
	if signal != nil {
		t.publish(Event{Kind: EventSignal, Signal: *signal})
		t.enqueue(Event{Kind: EventSignal, Signal: *signal})
	}

	if update, ok := t.ledger.UpdateFromMarket(m); ok {
		t.publish(Event{Kind: EventPositionUpdate, PositionUpdate: update})
	}
	return nil
}

// handleFill implements the Fill(f) branch: applies the fill to the
// ledger and fans out its ordered outcome, [PositionNew|PositionExit]
// then Balance.
func (t *Trader) handleFill(ctx context.Context, fill events.FillEvent) error {
	outcome, err := t.ledger.UpdateFromFill(ctx, fill)
	if err != nil {
		return fmt.Errorf("trader: ledger: %w", err)
	}

	switch outcome.Kind {
	case ledger.FillOutcomeEntry:
		t.publish(Event{Kind: EventPositionNew, PositionNew: *outcome.PositionNew})
	case ledger.FillOutcomeExit:
		t.publish(Event{Kind: EventPositionExit, PositionExit: *outcome.PositionExit})
	}
	t.publish(Event{Kind: EventBalance, Balance: outcome.Balance})
	return nil
}

func (t *Trader) enqueue(e Event) { t.queue = append(t.queue, e) }

func (t *Trader) publish(e Event) { t.eventTx <- e }
