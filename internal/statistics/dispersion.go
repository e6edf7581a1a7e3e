package statistics

// DataSummary is a Welford-backed running summary of one numeric series
// (e.g. per-trade PnL returns).
type DataSummary struct {
	welford Welford
}

// Update folds one observation into the summary.
func (d *DataSummary) Update(x float64) {
	d.welford.Update(x)
}

// Count is the number of observations folded in so far.
func (d *DataSummary) Count() int64 {
	return d.welford.Count
}

// Mean is the running mean.
func (d *DataSummary) Mean() float64 {
	return d.welford.Mean
}

// Variance is the running population variance.
func (d *DataSummary) Variance() float64 {
	return d.welford.PopulationVariance()
}

// StdDev is the running population standard deviation.
func (d *DataSummary) StdDev() float64 {
	return d.welford.StdDev()
}
