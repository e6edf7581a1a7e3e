package storage

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/assets"
)

// AddCandles upserts candles keyed by (asset, open_time), idempotently.
func (p *Postgres) AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error {
	const stmt = `
		INSERT INTO candles (asset, open_time, close_time, open, high, low, close, volume, trade_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (asset, open_time) DO UPDATE SET
			close_time = EXCLUDED.close_time, open = EXCLUDED.open, high = EXCLUDED.high,
			low = EXCLUDED.low, close = EXCLUDED.close, volume = EXCLUDED.volume,
			trade_count = EXCLUDED.trade_count`

	for _, c := range candles {
		if err := p.exec(ctx, stmt, asset.Symbol, c.OpenTime, c.CloseTime, c.Open, c.High, c.Low, c.Close, c.Volume, c.TradeCount); err != nil {
			return err
		}
	}
	return nil
}

// FetchAllCandles returns every stored candle for asset, ordered by
// open_time ascending.
func (p *Postgres) FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error) {
	const stmt = `SELECT open_time, close_time, open, high, low, close, volume, trade_count
		FROM candles WHERE asset = $1 ORDER BY open_time ASC`

	rows, err := p.q.Query(ctx, stmt, asset.Symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assets.Candle
	for rows.Next() {
		var c assets.Candle
		if err := rows.Scan(&c.OpenTime, &c.CloseTime, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.TradeCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
