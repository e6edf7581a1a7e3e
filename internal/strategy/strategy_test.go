package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
)

type stubModel struct {
	version string
	output  string
	err     error
}

func (m stubModel) Version() string { return m.version }
func (m stubModel) Run(ctx context.Context, t time.Time) (string, error) {
	return m.output, m.err
}
func (m stubModel) Backtest(ctx context.Context, t time.Time) ([]string, error) {
	return []string{m.output}, m.err
}

func TestGenerateSignalPassesThroughBacktestSignal(t *testing.T) {
	s, err := New(stubModel{version: "1.0.0"}, "^1.0.0", zerolog.Nop())
	require.NoError(t, err)

	precomputed := &events.Signal{Signals: map[events.Decision]events.SignalStrength{events.Long: 1.0}}
	event := events.NewBacktestCandleEvent(assets.New("BTCUSDT"), assets.Candle{}, precomputed)

	got, err := s.GenerateSignal(context.Background(), event)
	require.NoError(t, err)
	assert.Same(t, precomputed, got)
}

func TestGenerateSignalMapsBuyToLong(t *testing.T) {
	s, err := New(stubModel{version: "1.0.0", output: "buy"}, "^1.0.0", zerolog.Nop())
	require.NoError(t, err)

	event := events.NewCandleEvent(assets.New("BTCUSDT"), assets.Candle{Close: 100})
	got, err := s.GenerateSignal(context.Background(), event)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, events.SignalStrength(1.0), got.Signals[events.Long])
}

func TestGenerateSignalHoldProducesNoSignal(t *testing.T) {
	s, err := New(stubModel{version: "1.0.0", output: "hold"}, "^1.0.0", zerolog.Nop())
	require.NoError(t, err)

	event := events.NewCandleEvent(assets.New("BTCUSDT"), assets.Candle{Close: 100})
	got, err := s.GenerateSignal(context.Background(), event)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenerateSignalIncompatibleVersionFallsBackToHold(t *testing.T) {
	s, err := New(stubModel{version: "2.0.0", output: "buy"}, "^1.0.0", zerolog.Nop())
	require.NoError(t, err)

	event := events.NewCandleEvent(assets.New("BTCUSDT"), assets.Candle{Close: 100})
	got, err := s.GenerateSignal(context.Background(), event)
	require.NoError(t, err)
	assert.Nil(t, got)
}
