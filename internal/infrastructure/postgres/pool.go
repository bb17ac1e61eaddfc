package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Facturacion-api/pkg/config"
)

// NewPool abre el pool de conexiones y verifica la conexión con un ping.
// Los límites del pool vienen de DBConfig; un valor en cero deja el default de pgxpool.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	applyPoolLimits(poolConfig, cfg.Pool)

	// Montos y cantidades NUMERIC se leen y escriben como decimal.Decimal.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func applyPoolLimits(pc *pgxpool.Config, limits config.PoolConfig) {
	if limits.MaxConns > 0 {
		pc.MaxConns = int32(limits.MaxConns)
	}
	if limits.MinConns > 0 && int32(limits.MinConns) <= pc.MaxConns {
		pc.MinConns = int32(limits.MinConns)
	}
	if limits.MaxConnLifetimeMinutes > 0 {
		pc.MaxConnLifetime = time.Duration(limits.MaxConnLifetimeMinutes) * time.Minute
	}
	if limits.MaxConnIdleMinutes > 0 {
		pc.MaxConnIdleTime = time.Duration(limits.MaxConnIdleMinutes) * time.Minute
	}
}
