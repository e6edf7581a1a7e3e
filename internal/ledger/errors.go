package ledger

import "errors"

// ErrDataMissing is returned when a lookup finds no entry where one is
// required (e.g. bootstrapping statistics for an unconfigured asset).
var ErrDataMissing = errors.New("ledger: required data missing")

// ErrBuilderIncomplete is returned by Builder.Build when a required field
// was never set.
var ErrBuilderIncomplete = errors.New("ledger: builder incomplete")
