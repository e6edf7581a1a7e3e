package events

import (
	"time"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// OrderEvent is a signed-quantity instruction to trade at a referenced
// price. Quantity is positive for long entries, negative for short
// entries; for exits it is the negation of the held position's quantity.
type OrderEvent struct {
	Time       time.Time
	Asset      assets.Asset
	Decision   Decision
	MarketMeta MarketMeta
	Quantity   float64
}
