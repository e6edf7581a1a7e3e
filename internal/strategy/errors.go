package strategy

import "errors"

// ErrNoSignalsProduced is returned when a model's backtest entrypoint
// yields nothing to replay; the feed that requested it must terminate.
var ErrNoSignalsProduced = errors.New("strategy: model produced no backtest signals")
