// Backtest Runner CLI
// Replays stored candle history through a trading strategy over a fixed
// window, reporting per-asset and aggregate performance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/config"
	"github.com/ajitpratap0/meshtrader/internal/core"
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/execution"
	"github.com/ajitpratap0/meshtrader/internal/ledger"
	"github.com/ajitpratap0/meshtrader/internal/market"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/storage"
	"github.com/ajitpratap0/meshtrader/internal/strategy"
	"github.com/ajitpratap0/meshtrader/internal/trader"
)

var (
	symbols        = flag.String("symbols", "BTCUSDT", "comma-separated list of symbols to replay")
	initialCapital = flag.Float64("capital", 10000.0, "starting cash in USD")
	commissionRate = flag.Float64("commission", 0.001, "exchange commission rate, e.g. 0.001 = 0.1%")
	lastN          = flag.Int("last-n", 5000, "stored candles to replay per asset")
	bufferN        = flag.Int("buffer-n", 200, "leading candles consumed as strategy warm-up")
	smaFast        = flag.Int("sma-fast", 10, "fast SMA period for the reference model")
	smaSlow        = flag.Int("sma-slow", 30, "slow SMA period for the reference model")
	versionGate    = flag.String("model-version", "^1.0.0", "semver constraint the strategy model must satisfy")
	logFormat      = flag.String("log-format", "console", "log output format: console or json")
	verbose        = flag.Bool("verbose", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	config.InitLogger(level, *logFormat)

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("backtest: fatal error")
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	assetList, err := parseAssets(*symbols)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx)
	if err != nil {
		return fmt.Errorf("backtest: connect to store: %w", err)
	}
	defer store.Close()

	statsCfg := statistics.Config{RiskFreeReturn: 0, TradingDaysPerYear: 365}

	led, err := ledger.NewBuilder().
		CoreID("backtest").
		Fees(events.Fees{Exchange: *commissionRate}).
		DefaultOrderValue(*initialCapital * 0.1).
		StatisticsConfig(statsCfg).
		Store(store).
		Logger(log.Logger).
		Build()
	if err != nil {
		return fmt.Errorf("backtest: build ledger: %w", err)
	}
	led.Bootstrap(ctx, *initialCapital, assetList)

	strategies := make(map[assets.Asset]*strategy.Strategy, len(assetList))
	for _, a := range assetList {
		model := strategy.NewSMAModel(*smaFast, *smaSlow)
		strat, err := strategy.New(model, *versionGate, log.Logger)
		if err != nil {
			return fmt.Errorf("backtest: build strategy for %s: %w", a.Symbol, err)
		}
		strategies[a] = strat
	}

	eventCh := make(chan trader.Event, 4096)
	go logEvents(eventCh)

	c, err := core.New(core.Config{
		Ledger:           led,
		Assets:           assetList,
		Strategies:       strategies,
		Execution:        execution.New(events.Fees{Exchange: *commissionRate}),
		Mode:             market.Backtest(*lastN, *bufferN),
		CandleSource:     store,
		EventSink:        eventCh,
		TradingIsLive:    false,
		StatisticsConfig: statsCfg,
		StartingCash:     *initialCapital,
		Log:              log.Logger,
	})
	if err != nil {
		return fmt.Errorf("backtest: build core: %w", err)
	}

	summary, err := c.Run(ctx, make(chan core.Command))
	close(eventCh)
	if err != nil {
		return fmt.Errorf("backtest: run: %w", err)
	}

	fmt.Println(summary.TextReport)
	return nil
}

func parseAssets(raw string) ([]assets.Asset, error) {
	parts := strings.Split(raw, ",")
	list := make([]assets.Asset, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		list = append(list, assets.New(p))
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("backtest: no symbols provided")
	}
	return list, nil
}

func logEvents(eventCh <-chan trader.Event) {
	for e := range eventCh {
		switch e.Kind {
		case trader.EventPositionNew:
			log.Info().Str("asset", e.PositionNew.Asset.Symbol).Msg("position opened")
		case trader.EventPositionExit:
			log.Info().
				Str("asset", e.PositionExit.Asset.Symbol).
				Float64("realised_pnl", e.PositionExit.RealisedProfitLoss).
				Msg("position closed")
		}
	}
}
