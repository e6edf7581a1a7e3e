package trader

import (
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/ledger"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// EventKind tags which field of Event is populated. This is both the
// Trader's internal work-queue item type and the value fanned out to the
// sink: a queue item carries strictly more information than what gets
// published (e.g. a SignalForceExit never reaches the sink), but sharing
// one type keeps the queue and the sink vocabulary in lockstep.
type EventKind int

const (
	EventMarket EventKind = iota
	EventBalance
	EventSignal
	EventSignalForceExit
	EventOrder
	EventFill
	EventPositionNew
	EventPositionUpdate
	EventPositionExit
)

func (k EventKind) String() string {
	switch k {
	case EventMarket:
		return "Market"
	case EventBalance:
		return "Balance"
	case EventSignal:
		return "Signal"
	case EventSignalForceExit:
		return "SignalForceExit"
	case EventOrder:
		return "Order"
	case EventFill:
		return "Fill"
	case EventPositionNew:
		return "PositionNew"
	case EventPositionUpdate:
		return "PositionUpdate"
	case EventPositionExit:
		return "PositionExit"
	default:
		return "Unknown"
	}
}

// Event is the tagged union a Trader both queues internally and publishes
// to the shared event sink. Exactly one payload field is meaningful,
// selected by Kind.
type Event struct {
	Kind EventKind

	Market          events.MarketEvent
	Balance         position.Balance
	Signal          events.Signal
	SignalForceExit ledger.ForceExit
	Order           events.OrderEvent
	Fill            events.FillEvent
	PositionNew     position.Position
	PositionUpdate  position.Update
	PositionExit    position.Exit
}
