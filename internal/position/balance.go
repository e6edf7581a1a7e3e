package position

import "time"

// Balance is the cash ledger: Total is equity (cash plus realised PnL),
// Available is cash free to deploy into new entries.
type Balance struct {
	Time      time.Time
	Total     float64
	Available float64
}
