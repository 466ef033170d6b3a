package db

import (
	"context"
	"database/sql"
	"time"

	"fnb-insights/internal/infrastructure/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect opens a PostgreSQL pool. An empty DSN returns nil, which callers
// treat as "run on the in-memory store".
func Connect(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	pool, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxIdleTime(cfg.MaxIdleTime)

	pingCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
