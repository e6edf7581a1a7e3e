// Package market implements the MarketFeed: an ordered stream of
// MarketEvents fed into a Trader's event queue, either live from an
// exchange kline stream or replayed from a pre-computed backtest window.
package market

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/events"
)

// Status tags the outcome of a single poll of the feed.
type Status int

const (
	// StatusNext means Tick.Event is populated and ready to consume.
	StatusNext Status = iota
	// StatusUnhealthy is advisory; the producer hit a transient error and
	// logged it, the caller may keep polling.
	StatusUnhealthy
	// StatusFinished means the producing side closed the channel; no
	// further ticks will arrive.
	StatusFinished
)

// Tick is one poll result from a Feed.
type Tick struct {
	Status Status
	Event  events.MarketEvent
}

// Mode selects how a Feed sources its events. The zero value is Live.
type Mode struct {
	Backtest bool
	LastN    int // Backtest: how many stored candles to replay.
	BufferN  int // Backtest: leading candles consumed as warm-up only.
}

// Live returns the mode that streams klines from the exchange in real time.
func Live() Mode { return Mode{} }

// Backtest returns the mode that replays the last lastN stored candles,
// treating the first bufferN as strategy warm-up.
func Backtest(lastN, bufferN int) Mode { return Mode{Backtest: true, LastN: lastN, BufferN: bufferN} }

// Feed is an unbounded in-memory channel of Ticks for one asset. It is
// produced by a dedicated goroutine (StartLive or StartBacktest) and
// consumed by exactly one Trader via Next.
type Feed struct {
	ticks chan Tick
}

func newFeed() *Feed {
	// Large buffer approximates "unbounded": the producer never blocks on
	// a slow consumer within the span of one market tick's processing.
	return &Feed{ticks: make(chan Tick, 4096)}
}

// Next blocks until a Tick is available or ctx is cancelled.
func (f *Feed) Next(ctx context.Context) (Tick, bool) {
	select {
	case t, ok := <-f.ticks:
		if !ok {
			return Tick{Status: StatusFinished}, true
		}
		return t, true
	case <-ctx.Done():
		return Tick{}, false
	}
}

func (f *Feed) pushNext(event events.MarketEvent) {
	f.ticks <- Tick{Status: StatusNext, Event: event}
}

func (f *Feed) pushUnhealthy() {
	f.ticks <- Tick{Status: StatusUnhealthy}
}

func (f *Feed) close() {
	close(f.ticks)
}

// NewManualFeed returns a Feed a caller drives directly via Push/Close,
// used by tests and any future replay source (e.g. a fixture file) that
// doesn't need StartLive's or StartBacktest's own goroutine.
func NewManualFeed() *Feed { return newFeed() }

// Push enqueues a ready MarketEvent tick.
func (f *Feed) Push(event events.MarketEvent) { f.pushNext(event) }

// PushUnhealthy enqueues an advisory unhealthy tick.
func (f *Feed) PushUnhealthy() { f.pushUnhealthy() }

// Close signals Finished to any future Next call.
func (f *Feed) Close() { f.close() }
