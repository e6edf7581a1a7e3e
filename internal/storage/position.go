package storage

import (
	"context"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
)

// SetOpenPosition upserts an open position snapshot.
func (p *Postgres) SetOpenPosition(ctx context.Context, pos position.Position) error {
	const stmt = `
		INSERT INTO open_positions (
			id, asset, side, quantity, enter_avg_price_gross, enter_value_gross, enter_fees_total,
			current_symbol_price, current_value_gross, unrealised_profit_loss, enter_time, update_time
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			quantity = EXCLUDED.quantity, current_symbol_price = EXCLUDED.current_symbol_price,
			current_value_gross = EXCLUDED.current_value_gross,
			unrealised_profit_loss = EXCLUDED.unrealised_profit_loss, update_time = EXCLUDED.update_time`
	return p.exec(ctx, stmt,
		pos.ID, pos.Asset.Symbol, pos.Side.String(), pos.Quantity, pos.EnterAvgPriceGross,
		pos.EnterValueGross, pos.EnterFeesTotal, pos.CurrentSymbolPrice, pos.CurrentValueGross,
		pos.UnrealisedProfitLoss, pos.Meta.EnterTime, pos.Meta.UpdateTime,
	)
}

// GetOpenPosition fetches one open position by id.
func (p *Postgres) GetOpenPosition(ctx context.Context, id string) (position.Position, error) {
	const stmt = `SELECT id, asset, side, quantity, enter_avg_price_gross, enter_value_gross,
		enter_fees_total, current_symbol_price, current_value_gross, unrealised_profit_loss,
		enter_time, update_time FROM open_positions WHERE id = $1`

	var pos position.Position
	var asset, side string
	row := p.q.QueryRow(ctx, stmt, id)
	if err := row.Scan(&pos.ID, &asset, &side, &pos.Quantity, &pos.EnterAvgPriceGross,
		&pos.EnterValueGross, &pos.EnterFeesTotal, &pos.CurrentSymbolPrice, &pos.CurrentValueGross,
		&pos.UnrealisedProfitLoss, &pos.Meta.EnterTime, &pos.Meta.UpdateTime); err != nil {
		return position.Position{}, err
	}
	pos.Asset = assets.New(asset)
	pos.Side = parseSide(side)
	return pos, nil
}

// RemovePosition deletes an open position row, used once it has been moved
// to the exited bucket.
func (p *Postgres) RemovePosition(ctx context.Context, id string) error {
	return p.exec(ctx, `DELETE FROM open_positions WHERE id = $1`, id)
}

// GetOpenPositions fetches every open position for a core session,
// restricted to assetList when non-empty.
func (p *Postgres) GetOpenPositions(ctx context.Context, coreID string, assetList []assets.Asset) ([]position.Position, error) {
	const stmt = `SELECT id, asset, side, quantity, enter_avg_price_gross, enter_value_gross,
		enter_fees_total, current_symbol_price, current_value_gross, unrealised_profit_loss,
		enter_time, update_time FROM open_positions WHERE id LIKE $1 || '_%'`

	rows, err := p.q.Query(ctx, stmt, coreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allowed := make(map[string]bool, len(assetList))
	for _, a := range assetList {
		allowed[a.Symbol] = true
	}

	var out []position.Position
	for rows.Next() {
		var pos position.Position
		var asset, side string
		if err := rows.Scan(&pos.ID, &asset, &side, &pos.Quantity, &pos.EnterAvgPriceGross,
			&pos.EnterValueGross, &pos.EnterFeesTotal, &pos.CurrentSymbolPrice, &pos.CurrentValueGross,
			&pos.UnrealisedProfitLoss, &pos.Meta.EnterTime, &pos.Meta.UpdateTime); err != nil {
			return nil, err
		}
		if len(allowed) > 0 && !allowed[asset] {
			continue
		}
		pos.Asset = assets.New(asset)
		pos.Side = parseSide(side)
		out = append(out, pos)
	}
	return out, rows.Err()
}

// SetExitedPosition records a closed position against a core session.
func (p *Postgres) SetExitedPosition(ctx context.Context, coreID string, pos position.Position) error {
	const stmt = `
		INSERT INTO exited_positions (
			core_id, id, asset, side, quantity, enter_avg_price_gross, exit_avg_price_gross,
			enter_fees_total, exit_fees_total, realised_profit_loss, profit_loss_return,
			enter_time, exit_time
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	return p.exec(ctx, stmt,
		coreID, pos.ID, pos.Asset.Symbol, pos.Side.String(), pos.Quantity,
		pos.EnterAvgPriceGross, pos.ExitAvgPriceGross, pos.EnterFeesTotal, pos.ExitFeesTotal,
		pos.RealisedProfitLoss, pos.ProfitLossReturn, pos.Meta.EnterTime, pos.Meta.UpdateTime,
	)
}

// GetExitedPositions fetches every closed position for a core session.
func (p *Postgres) GetExitedPositions(ctx context.Context, coreID string) ([]position.Position, error) {
	const stmt = `SELECT id, asset, side, quantity, enter_avg_price_gross, exit_avg_price_gross,
		enter_fees_total, exit_fees_total, realised_profit_loss, profit_loss_return, enter_time, exit_time
		FROM exited_positions WHERE core_id = $1`

	rows, err := p.q.Query(ctx, stmt, coreID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []position.Position
	for rows.Next() {
		var pos position.Position
		var asset, side string
		if err := rows.Scan(&pos.ID, &asset, &side, &pos.Quantity, &pos.EnterAvgPriceGross,
			&pos.ExitAvgPriceGross, &pos.EnterFeesTotal, &pos.ExitFeesTotal, &pos.RealisedProfitLoss,
			&pos.ProfitLossReturn, &pos.Meta.EnterTime, &pos.Meta.UpdateTime); err != nil {
			return nil, err
		}
		pos.Asset = assets.New(asset)
		pos.Side = parseSide(side)
		out = append(out, pos)
	}
	return out, rows.Err()
}

func parseSide(s string) assets.Side {
	if s == assets.SideSell.String() {
		return assets.SideSell
	}
	return assets.SideBuy
}
