// Package events defines the wire-format payloads that flow through a
// Trader's event queue: market data envelopes, strategy signals, orders,
// and fills. Types here are pure data; the behavior that produces and
// consumes them lives in internal/strategy, internal/execution, and
// internal/ledger.
package events

import "fmt"

// Decision is a strategy's directional verdict on an asset.
type Decision int

const (
	Long Decision = iota
	CloseLong
	Short
	CloseShort
)

func (d Decision) String() string {
	switch d {
	case Long:
		return "Long"
	case CloseLong:
		return "CloseLong"
	case Short:
		return "Short"
	case CloseShort:
		return "CloseShort"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// IsEntry reports whether the decision opens a new position.
func (d Decision) IsEntry() bool {
	return d == Long || d == Short
}

// IsExit reports whether the decision closes an existing position.
func (d Decision) IsExit() bool {
	return d == CloseLong || d == CloseShort
}

// SignalStrength scales the allocator's default order size. Callers are
// expected to keep it within [0,1]; the allocator does not clamp it.
type SignalStrength float64
