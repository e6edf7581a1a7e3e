package storage

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/position"
)

// SetBalance upserts the single Balance row for a core session.
func (p *Postgres) SetBalance(ctx context.Context, coreID string, balance position.Balance) error {
	const stmt = `
		INSERT INTO balances (core_id, time, total, available)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (core_id) DO UPDATE SET
			time = EXCLUDED.time, total = EXCLUDED.total, available = EXCLUDED.available`
	return p.exec(ctx, stmt, coreID, balance.Time, balance.Total, balance.Available)
}

// GetBalance fetches the Balance for a core session.
func (p *Postgres) GetBalance(ctx context.Context, coreID string) (position.Balance, error) {
	const stmt = `SELECT time, total, available FROM balances WHERE core_id = $1`

	var b position.Balance
	row := p.q.QueryRow(ctx, stmt, coreID)
	if err := row.Scan(&b.Time, &b.Total, &b.Available); err != nil {
		return position.Balance{}, err
	}
	return b, nil
}
