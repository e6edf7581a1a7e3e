package ledger

import "math"

// Allocator sizes new entries from a configured default order value. Exits
// always close the full open quantity and never consult the allocator.
type Allocator struct {
	DefaultOrderValue float64
}

// Unit returns the base quantity for one unit of strength at the given
// close price, floored to 1e-4 (the only rounding step in the pipeline).
func (a Allocator) Unit(close float64) float64 {
	return math.Floor((a.DefaultOrderValue/close)*1e4) / 1e4
}
