package strategy

import (
	"context"
	"time"

	"github.com/cinar/indicator/v2/trend"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// Model is the abstracted "strategy model" collaborator §6 describes:
// run produces one decision for the latest observed candle, backtest
// replays the whole observed window. This core never trains a model; it
// only consumes the run/backtest contract.
type Model interface {
	Version() string
	Run(ctx context.Context, candleOpenTime time.Time) (string, error)
	Backtest(ctx context.Context, startTime time.Time) ([]string, error)
}

// SMAModel is the in-repo reference Model: a fast/slow simple-moving-average
// crossover built on cinar/indicator/v2, used whenever no remote model
// endpoint is configured. It is a stand-in the Non-goals explicitly permit,
// not a reproduction of any predictive model.
type SMAModel struct {
	fast, slow int
	window     []assets.Candle
	maxWindow  int
}

// NewSMAModel returns a crossover model comparing a fast- and slow-period
// simple moving average over observed candle closes.
func NewSMAModel(fast, slow int) *SMAModel {
	return &SMAModel{fast: fast, slow: slow, maxWindow: slow * 4}
}

// Observe appends a newly closed candle to the model's rolling window.
func (m *SMAModel) Observe(c assets.Candle) {
	m.window = append(m.window, c)
	if len(m.window) > m.maxWindow {
		m.window = m.window[len(m.window)-m.maxWindow:]
	}
}

// Version reports the model's semver, checked against the engine's
// expected compatibility range before Run/Backtest are ever called.
func (m *SMAModel) Version() string { return "1.0.0" }

// Run returns "buy"/"sell" on a crossover and "hold" otherwise.
func (m *SMAModel) Run(ctx context.Context, candleOpenTime time.Time) (string, error) {
	if len(m.window) < m.slow+1 {
		return "hold", nil
	}
	fastSeries := sma(closesOf(m.window), m.fast)
	slowSeries := sma(closesOf(m.window), m.slow)
	return crossoverAt(fastSeries, slowSeries, len(fastSeries)-1), nil
}

// Backtest replays the crossover decision across the whole observed window.
func (m *SMAModel) Backtest(ctx context.Context, startTime time.Time) ([]string, error) {
	closes := closesOf(m.window)
	if len(closes) < m.slow+1 {
		return nil, nil
	}
	fastSeries := sma(closes, m.fast)
	slowSeries := sma(closes, m.slow)

	outputs := make([]string, 0, len(fastSeries)-1)
	for i := 1; i < len(fastSeries); i++ {
		outputs = append(outputs, crossoverAt(fastSeries, slowSeries, i))
	}
	return outputs, nil
}

func crossoverAt(fastSeries, slowSeries []float64, i int) string {
	if i < 1 || i >= len(fastSeries) || i >= len(slowSeries) {
		return "hold"
	}
	prevFast, prevSlow := fastSeries[i-1], slowSeries[i-1]
	curFast, curSlow := fastSeries[i], slowSeries[i]
	switch {
	case prevFast <= prevSlow && curFast > curSlow:
		return "buy"
	case prevFast >= prevSlow && curFast < curSlow:
		return "sell"
	default:
		return "hold"
	}
}

func closesOf(candles []assets.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// sma runs cinar/indicator/v2's streaming SMA over a fixed slice, draining
// its output channel into a slice the crossover comparison can index.
func sma(closes []float64, period int) []float64 {
	in := make(chan float64)
	go func() {
		defer close(in)
		for _, c := range closes {
			in <- c
		}
	}()

	s := trend.NewSma[float64]()
	s.Period = period
	out := s.Compute(in)

	result := make([]float64, 0, len(closes))
	for v := range out {
		result = append(result, v)
	}
	return result
}
