package position

import "errors"

var (
	// ErrCannotEnterPositionWithExitFill is returned by Enter when the fill's
	// decision is a close, not an entry.
	ErrCannotEnterPositionWithExitFill = errors.New("position: cannot enter position with an exit fill")
	// ErrCannotExitPositionWithEntryFill is returned by Exit when the fill's
	// decision is an entry, not a close.
	ErrCannotExitPositionWithEntryFill = errors.New("position: cannot exit position with an entry fill")
	// ErrParseEntrySide is returned when a fill's decision and signed
	// quantity disagree about which side is being entered.
	ErrParseEntrySide = errors.New("position: could not parse entry side from decision and quantity sign")
)
