package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bounded cardinality constants for metric labels.
// These ensure metrics don't have unbounded label values which can cause memory issues.
const (
	// Circuit breaker reasons (bounded set)
	ReasonMaxDrawdown    = "max_drawdown"
	ReasonHighVolatility = "high_volatility"
	ReasonRateLimit      = "rate_limit"
	ReasonManualHalt     = "manual_halt"
	ReasonOther          = "other"

	// Exchange API error categories (bounded set)
	ExchangeErrorTimeout     = "timeout"
	ExchangeErrorRateLimit   = "rate_limit"
	ExchangeErrorAuth        = "authentication"
	ExchangeErrorNetwork     = "network"
	ExchangeErrorInvalidReq  = "invalid_request"
	ExchangeErrorServerError = "server_error"
	ExchangeErrorOther       = "other"
)

// NormalizeCircuitBreakerReason maps arbitrary reasons to bounded set
func NormalizeCircuitBreakerReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "drawdown"):
		return ReasonMaxDrawdown
	case strings.Contains(lower, "volatility"):
		return ReasonHighVolatility
	case strings.Contains(lower, "rate") || strings.Contains(lower, "limit"):
		return ReasonRateLimit
	case strings.Contains(lower, "manual") || strings.Contains(lower, "halt"):
		return ReasonManualHalt
	default:
		return ReasonOther
	}
}

// NormalizeExchangeError maps arbitrary error messages to bounded set
func NormalizeExchangeError(err error) string {
	if err == nil {
		return ""
	}
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
		return ExchangeErrorTimeout
	case strings.Contains(errStr, "rate") || strings.Contains(errStr, "429"):
		return ExchangeErrorRateLimit
	case strings.Contains(errStr, "auth") || strings.Contains(errStr, "401") || strings.Contains(errStr, "403"):
		return ExchangeErrorAuth
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") || strings.Contains(errStr, "dial"):
		return ExchangeErrorNetwork
	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "400"):
		return ExchangeErrorInvalidReq
	case strings.Contains(errStr, "500") || strings.Contains(errStr, "502") || strings.Contains(errStr, "503"):
		return ExchangeErrorServerError
	default:
		return ExchangeErrorOther
	}
}

// Trading performance metrics. cmd/trader's event logger updates TotalPnL,
// OpenPositions, PositionValueBySymbol and the trade counters; WinRate,
// CurrentDrawdown and SharpeRatio are not set by any code in this module.
var (
	TotalPnL = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshtrader_total_pnl",
		Help: "Total profit and loss in USD across all assets",
	})

	WinRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshtrader_win_rate",
		Help: "Win rate as a ratio (0.0 to 1.0)",
	})

	OpenPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshtrader_open_positions",
		Help: "Number of currently open positions",
	})

	TotalTrades = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshtrader_total_trades",
		Help: "Total number of trades closed",
	})

	CurrentDrawdown = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshtrader_current_drawdown",
		Help: "Current drawdown as a ratio (0.0 to 1.0)",
	})

	PositionValueBySymbol = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "meshtrader_position_value_by_symbol",
		Help: "Open position value in USD by trading symbol",
	}, []string{"symbol"})

	SharpeRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meshtrader_sharpe_ratio",
		Help: "Sharpe ratio (risk-adjusted return) of the Total summary",
	})

	WinningTradesValue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshtrader_winning_trades_value",
		Help: "Total value of winning trades in USD",
	})

	LosingTradesValue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meshtrader_losing_trades_value",
		Help: "Total value (absolute) of losing trades in USD",
	})
)

// Circuit breaker metrics, set through UpdateCircuitBreaker and
// RecordCircuitBreakerTrip.
var (
	CircuitBreakerStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "meshtrader_circuit_breaker_status",
		Help: "Circuit breaker status (1 = active/tripped, 0 = inactive)",
	}, []string{"breaker_type"})

	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meshtrader_circuit_breaker_trips_total",
		Help: "Total number of circuit breaker trips",
	}, []string{"breaker_type", "reason"})
)

// Exchange metrics, recorded through RecordExchangeAPICall and
// RecordOrderExecution.
var (
	ExchangeAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meshtrader_exchange_api_latency_ms",
		Help:    "Exchange API latency in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"exchange", "endpoint"})

	ExchangeAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meshtrader_exchange_api_errors_total",
		Help: "Total exchange API errors",
	}, []string{"exchange", "error_type"})

	OrderExecutionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meshtrader_order_execution_latency_ms",
		Help:    "Order execution latency in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2500, 5000},
	})
)

// RecordTrade records a closed trade's realised P&L.
func RecordTrade(profitLoss float64) {
	TotalTrades.Inc()
	if profitLoss > 0 {
		WinningTradesValue.Add(profitLoss)
	} else {
		LosingTradesValue.Add(-profitLoss)
	}
}

// UpdatePositionValue updates the open-position value gauge for a symbol.
// Passing 0 after a position closes sets the symbol's series to zero; the
// series itself stays registered.
func UpdatePositionValue(symbol string, value float64) {
	PositionValueBySymbol.WithLabelValues(symbol).Set(value)
}

// UpdateCircuitBreaker sets the active/inactive gauge for a breaker type.
func UpdateCircuitBreaker(breakerType string, active bool) {
	value := 0.0
	if active {
		value = 1.0
	}
	CircuitBreakerStatus.WithLabelValues(breakerType).Set(value)
}

// RecordCircuitBreakerTrip records a breaker trip event by normalized reason.
func RecordCircuitBreakerTrip(breakerType, reason string) {
	CircuitBreakerTrips.WithLabelValues(breakerType, NormalizeCircuitBreakerReason(reason)).Inc()
}

// RecordExchangeAPICall records an exchange API call's latency and, on
// failure, its normalized error category.
func RecordExchangeAPICall(exchange, endpoint string, durationMs float64, err error) {
	ExchangeAPILatency.WithLabelValues(exchange, endpoint).Observe(durationMs)
	if err != nil {
		ExchangeAPIErrors.WithLabelValues(exchange, NormalizeExchangeError(err)).Inc()
	}
}

// RecordOrderExecution records the latency of placing and filling an order.
func RecordOrderExecution(durationMs float64) {
	OrderExecutionLatency.Observe(durationMs)
}
