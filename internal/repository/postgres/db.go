package postgres

import (
	"context"

	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
