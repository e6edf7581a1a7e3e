package ledger

import (
	"github.com/rs/zerolog"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/events"
	"github.com/ajitpratap0/meshtrader/internal/position"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/storage"
)

// Builder constructs a Ledger, failing closed when a required field is
// missing rather than letting a partially configured Ledger start trading.
type Builder struct {
	ledger    Ledger
	hasCoreID bool
	hasFees   bool
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.ledger.allocator = Allocator{}
	b.ledger.risk = PassThrough{}
	b.ledger.open = make(map[string]position.Position)
	b.ledger.stats = make(map[assets.Asset]*statistics.TradingSummary)
	return b
}

func (b *Builder) CoreID(id string) *Builder {
	b.ledger.coreID = id
	b.hasCoreID = true
	return b
}

func (b *Builder) Fees(fees events.Fees) *Builder {
	b.ledger.fees = fees
	b.hasFees = true
	return b
}

func (b *Builder) DefaultOrderValue(v float64) *Builder {
	b.ledger.allocator.DefaultOrderValue = v
	return b
}

func (b *Builder) StatisticsConfig(cfg statistics.Config) *Builder {
	b.ledger.statCfg = cfg
	return b
}

func (b *Builder) Store(store storage.Store) *Builder {
	b.ledger.store = store
	return b
}

func (b *Builder) Risk(r RiskEvaluator) *Builder {
	b.ledger.risk = r
	return b
}

func (b *Builder) Logger(log zerolog.Logger) *Builder {
	b.ledger.log = log.With().Str("component", "ledger").Logger()
	return b
}

// Build validates required fields and returns the assembled Ledger.
func (b *Builder) Build() (*Ledger, error) {
	if !b.hasCoreID || !b.hasFees {
		return nil, ErrBuilderIncomplete
	}
	l := b.ledger
	return &l, nil
}
