package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config хранит конфигурацию для подключения к PostgreSQL
type Config struct {
	DatabaseURL string // "postgres://user@host:port/dbname?sslmode=disable"
	// Password подставляется в конфиг соединения, если задан отдельно от URL.
	Password        string
	MaxConns        int32
	MaxConnIdleTime time.Duration
}

// NewClient создает пул соединений. Пул ленивый: соединение устанавливается
// при первом запросе, проверить доступность можно через Ping.
func NewClient(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.Password != "" {
		poolConfig.ConnConfig.Password = cfg.Password
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return pool, nil
}
