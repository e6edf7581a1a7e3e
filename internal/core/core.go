// Package core implements the supervisor: it prefetches candle history,
// spawns one Trader per asset, fans remote commands out to them, and
// assembles the session summary once they've all finished.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/execution"
	"github.com/ajitpratap0/meshtrader/internal/ledger"
	"github.com/ajitpratap0/meshtrader/internal/market"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/strategy"
	"github.com/ajitpratap0/meshtrader/internal/trader"
)

// exitGracePeriod is how long Terminate waits for in-flight exit fills
// before forcing every Trader to stop.
const exitGracePeriod = time.Second

// Config collects everything Core needs to run one trading session.
type Config struct {
	Ledger        *ledger.Ledger
	Assets        []assets.Asset
	Strategies    map[assets.Asset]*strategy.Strategy
	Execution     *execution.Execution
	Mode          market.Mode
	KlineSource   market.KlineSource  // required for Live mode
	CandleSource  market.CandleSource // required for Backtest mode
	EventSink     chan<- trader.Event
	TradingIsLive bool

	HistoryFetcher HistoryFetcher // optional: enables candle prefetch
	CandleWriter   CandleWriter   // required if HistoryFetcher is set
	PrefetchDays   int

	StatisticsConfig statistics.Config
	StartingCash     float64

	Log zerolog.Logger
}

// Core supervises one trading session across every configured asset.
type Core struct {
	cfg       Config
	commandTx map[assets.Asset]chan trader.Command
	traders   map[assets.Asset]*trader.Trader
	log       zerolog.Logger
}

// New validates cfg and builds one Trader per asset.
func New(cfg Config) (*Core, error) {
	if cfg.Ledger == nil || cfg.Execution == nil || cfg.EventSink == nil || len(cfg.Assets) == 0 {
		return nil, fmt.Errorf("core: missing required dependency")
	}

	c := &Core{
		cfg:       cfg,
		commandTx: make(map[assets.Asset]chan trader.Command, len(cfg.Assets)),
		traders:   make(map[assets.Asset]*trader.Trader, len(cfg.Assets)),
		log:       cfg.Log.With().Str("component", "core").Logger(),
	}

	for _, a := range cfg.Assets {
		strat, ok := cfg.Strategies[a]
		if !ok {
			return nil, fmt.Errorf("core: no strategy configured for %s", a.Symbol)
		}

		commandCh := make(chan trader.Command, 4)
		c.commandTx[a] = commandCh

		tr, err := trader.New(trader.Config{
			Asset:         a,
			CommandRx:     commandCh,
			EventTx:       cfg.EventSink,
			Feed:          c.feedFactory(a),
			Ledger:        cfg.Ledger,
			Strategy:      strat,
			Execution:     cfg.Execution,
			TradingIsLive: cfg.TradingIsLive,
			Log:           cfg.Log,
		})
		if err != nil {
			return nil, err
		}
		c.traders[a] = tr
	}
	return c, nil
}

func (c *Core) feedFactory(asset assets.Asset) trader.FeedFactory {
	return func(ctx context.Context, a assets.Asset) (*market.Feed, error) {
		if c.cfg.Mode.Backtest {
			return market.StartBacktest(ctx, c.cfg.CandleSource, c.cfg.Strategies[asset], a, c.cfg.Mode, c.cfg.Log)
		}
		return market.StartLive(ctx, c.cfg.KlineSource, a, c.cfg.Log)
	}
}

// Run executes the full supervisor protocol: prefetch, spawn, command
// dispatch, and final summary assembly.
func (c *Core) Run(ctx context.Context, commandRx <-chan Command) (Summary, error) {
	if c.cfg.HistoryFetcher != nil {
		byAsset, err := prefetchHistory(ctx, c.cfg.HistoryFetcher, c.cfg.CandleWriter, c.cfg.Assets, c.cfg.PrefetchDays)
		if err != nil {
			return Summary{}, err
		}
		if start, ok := earliestOpenTime(byAsset); ok {
			c.cfg.Ledger.ResetStatisticsStartTime(start)
		}
	}

	traderCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(traderCtx)
	_ = gctx
	for a, tr := range c.traders {
		a, tr := a, tr
		group.Go(func() error {
			if err := tr.Run(traderCtx); err != nil {
				c.log.Error().Err(err).Str("asset", a.Symbol).Msg("core: trader exited with error")
				return err
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	var runErr error
dispatch:
	for {
		select {
		case err := <-done:
			runErr = err
			break dispatch

		case cmd, ok := <-commandRx:
			if !ok {
				c.terminateAll("remote command transmitter dropped")
				runErr = <-done
				break dispatch
			}
			if c.dispatch(cmd) {
				runErr = <-done
				break dispatch
			}
		}
	}

	summary := assembleSummary(c.cfg.Ledger.AllStatistics(), c.cfg.Ledger.ClosedPositions(), c.cfg.StartingCash, c.cfg.StatisticsConfig)
	return summary, runErr
}

// dispatch applies one supervisor Command, returning true if it was a
// Terminate (the caller should now wait for every Trader to finish).
func (c *Core) dispatch(cmd Command) bool {
	switch cmd.Kind {
	case CommandCreateModel:
		c.log.Info().Str("asset", cmd.Asset.Symbol).Msg("core: create_model forwarded to external model builder")

	case CommandExitPosition:
		if ch, ok := c.commandTx[cmd.Asset]; ok {
			ch <- trader.ExitPosition(cmd.Asset)
		}

	case CommandExitAllPositions:
		for a, ch := range c.commandTx {
			ch <- trader.ExitPosition(a)
		}

	case CommandTerminate:
		c.terminateAll(cmd.Reason)
		return true
	}
	return false
}

// terminateAll gives every Trader a grace window to close open positions
// before forcing them to stop.
func (c *Core) terminateAll(reason string) {
	for a, ch := range c.commandTx {
		ch <- trader.ExitPosition(a)
	}
	time.Sleep(exitGracePeriod)
	for _, ch := range c.commandTx {
		ch <- trader.Terminate(reason)
	}
}
