package ledger

import "github.com/ajitpratap0/meshtrader/internal/events"

// RiskEvaluator is the hook §4.5.1 step 6 reserves for a future risk rule.
// It may veto an order (return ok=false) or pass it through unchanged. No
// risk rule is active in this core; PassThrough is the only implementation.
type RiskEvaluator interface {
	Evaluate(order events.OrderEvent) (events.OrderEvent, bool)
}

// PassThrough never vetoes an order, preserving the invariant that the risk
// hook exists without ever being exercised.
type PassThrough struct{}

func (PassThrough) Evaluate(order events.OrderEvent) (events.OrderEvent, bool) {
	return order, true
}
