// Trader is the live entrypoint: it streams exchange klines through one
// Trader per configured asset and logs every fill and position change as
// it happens.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ajitpratap0/meshtrader/internal/alerts"
	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/config"
	"github.com/ajitpratap0/meshtrader/internal/core"
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/exchange"
	"github.com/ajitpratap0/meshtrader/internal/execution"
	"github.com/ajitpratap0/meshtrader/internal/ledger"
	"github.com/ajitpratap0/meshtrader/internal/market"
	"github.com/ajitpratap0/meshtrader/internal/metrics"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/storage"
	"github.com/ajitpratap0/meshtrader/internal/strategy"
	"github.com/ajitpratap0/meshtrader/internal/trader"
)

var configPath = flag.String("config", "", "path to config file (defaults to ./configs/config.yaml)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trader: load config: %v\n", err)
		os.Exit(1)
	}
	config.InitLogger(cfg.App.LogLevel, "console")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("trader: fatal error")
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	assetList := make([]assets.Asset, 0, len(cfg.Trading.Symbols))
	for _, s := range cfg.Trading.Symbols {
		assetList = append(assetList, assets.New(s))
	}

	store, err := storage.New(ctx)
	if err != nil {
		return fmt.Errorf("trader: connect to store: %w", err)
	}
	defer store.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	candleCache := market.NewCandleCache(store, redisClient, time.Minute)

	exchangeCfg, ok := cfg.Exchanges[cfg.Trading.Exchange]
	if !ok {
		return fmt.Errorf("trader: no exchange config for %q", cfg.Trading.Exchange)
	}
	klineClient := exchange.NewKlineClient(exchangeCfg.APIKey, exchangeCfg.SecretKey)

	statsCfg := statistics.Config{RiskFreeReturn: 0, TradingDaysPerYear: 365}
	tradingIsLive := cfg.Trading.Mode == "live"

	led, err := ledger.NewBuilder().
		CoreID("live").
		Fees(events.Fees{Exchange: exchangeCfg.Fees.Taker}).
		DefaultOrderValue(cfg.Trading.InitialCapital * cfg.Trading.DefaultQuantity).
		StatisticsConfig(statsCfg).
		Store(store).
		Logger(log.Logger).
		Build()
	if err != nil {
		return fmt.Errorf("trader: build ledger: %w", err)
	}
	led.Bootstrap(ctx, cfg.Trading.InitialCapital, assetList)

	strategies := make(map[assets.Asset]*strategy.Strategy, len(assetList))
	for _, a := range assetList {
		model := strategy.NewSMAModel(10, 30)
		if history, err := candleCache.FetchAllCandles(ctx, a); err == nil {
			for _, c := range history {
				model.Observe(c)
			}
		} else {
			log.Warn().Err(err).Str("asset", a.Symbol).Msg("trader: no warm-up history available, model starts cold")
		}

		strat, err := strategy.New(model, cfg.Trading.ModelVersionGate, log.Logger)
		if err != nil {
			return fmt.Errorf("trader: build strategy for %s: %w", a.Symbol, err)
		}
		strategies[a] = strat
	}

	notifier := newNotifier(cfg.Notifications)

	if cfg.Monitoring.EnableMetrics {
		metricsServer := metrics.NewServer(cfg.Monitoring.PrometheusPort, log.Logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("trader: start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	eventCh := make(chan trader.Event, 4096)
	go logEvents(ctx, eventCh, notifier)

	c, err := core.New(core.Config{
		Ledger:           led,
		Assets:           assetList,
		Strategies:       strategies,
		Execution:        execution.New(events.Fees{Exchange: exchangeCfg.Fees.Taker}),
		Mode:             market.Live(),
		KlineSource:      klineClient,
		CandleSource:     candleCache,
		EventSink:        eventCh,
		TradingIsLive:    tradingIsLive,
		HistoryFetcher:   klineClient,
		CandleWriter:     store,
		PrefetchDays:     cfg.Trading.PrefetchDays,
		StatisticsConfig: statsCfg,
		StartingCash:     cfg.Trading.InitialCapital,
		Log:              log.Logger,
	})
	if err != nil {
		return fmt.Errorf("trader: build core: %w", err)
	}

	commandCh := make(chan core.Command)
	summary, err := c.Run(ctx, commandCh)
	close(eventCh)
	if err != nil {
		return fmt.Errorf("trader: run: %w", err)
	}

	alerts.AlertSessionTerminated(ctx, notifier, "session ended", summary.TextReport)

	fmt.Println(summary.TextReport)
	return nil
}

// newNotifier builds the alert manager used to announce position closes and
// session termination. It always logs; it also posts to Telegram when a bot
// token is configured and notifications are enabled.
func newNotifier(cfg config.NotificationsConfig) *alerts.Manager {
	alerters := []alerts.Alerter{alerts.NewLogAlerter()}
	if cfg.Enabled && cfg.TelegramToken != "" {
		tg, err := alerts.NewTelegramAlerter(cfg.TelegramToken, cfg.ChatIDs)
		if err != nil {
			log.Warn().Err(err).Msg("trader: telegram alerter disabled")
		} else {
			alerters = append(alerters, tg)
		}
	}
	return alerts.NewManager(alerters...)
}

func logEvents(ctx context.Context, eventCh <-chan trader.Event, notifier *alerts.Manager) {
	var totalPnL float64
	for e := range eventCh {
		switch e.Kind {
		case trader.EventPositionNew:
			log.Info().Str("asset", e.PositionNew.Asset.Symbol).Msg("position opened")
			alerts.AlertPositionOpened(ctx, notifier, e.PositionNew.Asset.Symbol, e.PositionNew.Quantity, e.PositionNew.EnterAvgPriceGross)
			metrics.OpenPositions.Inc()
			metrics.UpdatePositionValue(e.PositionNew.Asset.Symbol, e.PositionNew.EnterValueGross)
		case trader.EventPositionExit:
			log.Info().
				Str("asset", e.PositionExit.Asset.Symbol).
				Float64("realised_pnl", e.PositionExit.RealisedProfitLoss).
				Msg("position closed")
			alerts.AlertPositionClosed(ctx, notifier, e.PositionExit.Asset.Symbol, e.PositionExit.RealisedProfitLoss)
			metrics.RecordTrade(e.PositionExit.RealisedProfitLoss)
			metrics.OpenPositions.Dec()
			metrics.UpdatePositionValue(e.PositionExit.Asset.Symbol, 0)
			totalPnL += e.PositionExit.RealisedProfitLoss
			metrics.TotalPnL.Set(totalPnL)
		case trader.EventBalance:
			log.Debug().Float64("total", e.Balance.Total).Msg("balance updated")
		}
	}
}
