// Package statistics accumulates PnL returns, drawdowns, and risk ratios
// online (Welford's algorithm) so the engine never re-scans trade history
// to refresh a summary.
package statistics

import "math"

// Welford accumulates mean and variance of a stream in a single pass.
type Welford struct {
	Count int64
	Mean  float64
	m2    float64
}

// Update folds one observation into the running mean/variance.
func (w *Welford) Update(x float64) {
	w.Count++
	delta := x - w.Mean
	w.Mean += delta / float64(w.Count)
	delta2 := x - w.Mean
	w.m2 += delta * delta2
}

// PopulationVariance is m2/n, zero until at least one observation.
func (w *Welford) PopulationVariance() float64 {
	if w.Count < 1 {
		return 0
	}
	return w.m2 / float64(w.Count)
}

// SampleVariance is m2/(n-1), zero until at least two observations.
func (w *Welford) SampleVariance() float64 {
	if w.Count < 2 {
		return 0
	}
	return w.m2 / float64(w.Count-1)
}

// StdDev is the population standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.PopulationVariance())
}
