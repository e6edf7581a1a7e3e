// Package strategy consumes a MarketEvent and emits zero-or-one Signal. A
// pre-computed backtest signal is returned as-is; a live candle is routed
// through an external model, whose "buy"/"sell"/"hold" output is mapped to
// a Decision/SignalStrength pair.
package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
)

// ErrStrategy wraps any error an external model returns; it is fatal to
// the enclosing Trader.
type ErrStrategy struct {
	Cause error
}

func (e *ErrStrategy) Error() string { return fmt.Sprintf("strategy: %v", e.Cause) }
func (e *ErrStrategy) Unwrap() error { return e.Cause }

// Strategy is the pure per-event transformation MarketEvent -> Signal.
type Strategy struct {
	model Model
	gate  *versionGate
	log   zerolog.Logger
}

// New builds a Strategy wrapping model, gated to only run versions
// satisfying expectedRange (a semver constraint string, e.g. "^1.0.0").
func New(model Model, expectedRange string, log zerolog.Logger) (*Strategy, error) {
	gate, err := newVersionGate(expectedRange)
	if err != nil {
		return nil, fmt.Errorf("strategy: invalid version constraint %q: %w", expectedRange, err)
	}
	return &Strategy{
		model: model,
		gate:  gate,
		log:   log.With().Str("component", "strategy").Logger(),
	}, nil
}

// GenerateSignal implements §4.2's per-event transformation.
func (s *Strategy) GenerateSignal(ctx context.Context, event events.MarketEvent) (*events.Signal, error) {
	switch event.Kind {
	case events.DetailBacktestCandle:
		return event.BacktestSignal, nil

	case events.DetailCandle:
		if !s.gate.allows(s.model.Version()) {
			s.log.Warn().Str("model_version", s.model.Version()).Msg("model version incompatible, falling back to hold")
			return nil, nil
		}
		output, err := s.model.Run(ctx, event.Candle.OpenTime)
		if err != nil {
			return nil, &ErrStrategy{Cause: err}
		}
		return mapOutput(output, event.Asset, event.Time, event.Candle.Close), nil

	default:
		return nil, nil
	}
}

// GenerateBacktestSignals implements the batch entrypoint: the i-th entry
// corresponds to candles[bufferN+i], timestamped at its close_time.
func (s *Strategy) GenerateBacktestSignals(ctx context.Context, asset assets.Asset, candles []assets.Candle, bufferN int) ([]*events.Signal, error) {
	if len(candles) < bufferN {
		return nil, fmt.Errorf("strategy: buffer_n %d exceeds candle count %d", bufferN, len(candles))
	}

	if !s.gate.allows(s.model.Version()) {
		s.log.Warn().Str("model_version", s.model.Version()).Msg("model version incompatible, producing no backtest signals")
		return nil, nil
	}

	startTime := candles[0].OpenTime
	outputs, err := s.model.Backtest(ctx, startTime)
	if err != nil {
		return nil, &ErrStrategy{Cause: err}
	}
	if len(outputs) == 0 {
		return nil, ErrNoSignalsProduced
	}

	signals := make([]*events.Signal, 0, len(candles)-bufferN)
	for i := bufferN; i < len(candles); i++ {
		idx := i - bufferN
		if idx >= len(outputs) {
			break
		}
		c := candles[i]
		signals = append(signals, mapOutput(outputs[idx], asset, c.CloseTime, c.Close))
	}
	return signals, nil
}

// mapOutput implements the model-output -> signal map from §4.2: "buy"
// opens a long, "sell" closes one, anything else emits no signal.
func mapOutput(output string, asset assets.Asset, t time.Time, close float64) *events.Signal {
	var decisions map[events.Decision]events.SignalStrength
	switch output {
	case "buy":
		decisions = map[events.Decision]events.SignalStrength{events.Long: 1.0}
	case "sell":
		decisions = map[events.Decision]events.SignalStrength{events.CloseLong: 1.0}
	default:
		return nil
	}
	return &events.Signal{
		Time:       t,
		Asset:      asset,
		MarketMeta: events.MarketMeta{Close: close, Time: t},
		Signals:    decisions,
	}
}
