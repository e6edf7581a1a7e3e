// Package storage implements the persistence contract the trading core
// consumes: candle history, balances, open/exited positions, and per-asset
// statistics. It is an external collaborator to the core per the engine's
// design — the Ledger and MarketFeed depend only on the Store interface,
// never on *Postgres directly, so tests substitute pgxmock.
package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ajitpratap0/meshtrader/internal/assets"
	"github.com/ajitpratap0/meshtrader/internal/position"
	"github.com/ajitpratap0/meshtrader/internal/risk"
	"github.com/ajitpratap0/meshtrader/internal/statistics"
	"github.com/ajitpratap0/meshtrader/internal/vault"
)

// Store is the persistence contract consumed by the engine. Implementations
// must make add_candles idempotent on (asset, open_time).
type Store interface {
	AddCandles(ctx context.Context, asset assets.Asset, candles []assets.Candle) error
	FetchAllCandles(ctx context.Context, asset assets.Asset) ([]assets.Candle, error)

	SetBalance(ctx context.Context, coreID string, balance position.Balance) error
	GetBalance(ctx context.Context, coreID string) (position.Balance, error)

	SetOpenPosition(ctx context.Context, pos position.Position) error
	GetOpenPosition(ctx context.Context, id string) (position.Position, error)
	RemovePosition(ctx context.Context, id string) error
	GetOpenPositions(ctx context.Context, coreID string, assetList []assets.Asset) ([]position.Position, error)

	SetExitedPosition(ctx context.Context, coreID string, pos position.Position) error
	GetExitedPositions(ctx context.Context, coreID string) ([]position.Position, error)

	SetStatistics(ctx context.Context, asset assets.Asset, summary *statistics.TradingSummary) error
	GetStatistics(ctx context.Context, asset assets.Asset) (*statistics.TradingSummary, error)
}

// querier is satisfied by both *pgxpool.Pool and pgxmock's mock connection,
// which is what lets Postgres's tests run without a live database.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgx.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the pgx-backed Store implementation. Its writes go through a
// circuit breaker so a degraded database fails fast instead of stalling the
// Ledger's mutex-guarded critical section; reads call the querier directly.
type Postgres struct {
	pool    *pgxpool.Pool
	q       querier
	breaker *risk.CircuitBreakerManager
}

// New resolves a database connection string (Vault first, DATABASE_URL
// fallback, mirroring the rest of the engine's secret-resolution policy)
// and opens a pooled connection.
func New(ctx context.Context) (*Postgres, error) {
	databaseURL := ""
	if client, err := vault.NewClientFromEnv(); err == nil {
		if cfg, err := client.GetDatabaseConfig(ctx); err == nil {
			databaseURL = cfg.ConnectionString()
			log.Info().Msg("storage: database credentials loaded from vault")
		} else {
			log.Debug().Err(err).Msg("storage: vault database config unavailable, falling back to env")
		}
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("storage: DATABASE_URL not set and no vault credentials available")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	return &Postgres{pool: pool, q: pool, breaker: risk.NewCircuitBreakerManager()}, nil
}

// NewWithQuerier wires an arbitrary querier (a pgxmock connection in tests)
// behind the same circuit-breaker policy New uses.
func NewWithQuerier(q querier) *Postgres {
	return &Postgres{q: q, breaker: risk.NewCircuitBreakerManager()}
}

// Close releases the underlying connection pool, if any.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) exec(ctx context.Context, sql string, args ...any) error {
	_, err := p.breaker.Database().Execute(func() (any, error) {
		return p.q.Exec(ctx, sql, args...)
	})
	return err
}
