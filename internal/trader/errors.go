package trader

import "errors"

// ErrMisconfigured is returned by New when a required collaborator is nil.
var ErrMisconfigured = errors.New("trader: missing required dependency")
