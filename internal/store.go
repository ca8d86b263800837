package internal

import (
	"context"
	"estatemap/internal/adapters/nullstore"
	postgres_adapter "estatemap/internal/adapters/postgres"
	"estatemap/internal/adapters/seeddata"
	sqlite_adapter "estatemap/internal/adapters/sqlite"
	"estatemap/internal/configs"
	"estatemap/internal/core/port"
	"estatemap/pkg/postgres"
	"fmt"
	"time"
)

// openedStore - хранилище вместе с функцией освобождения его ресурсов.
type openedStore struct {
	store port.ListingStore
	close func()
}

// openStore выбирает хранилище по конфигурации. Без URL/ключа, а также при
// недоступной на старте Postgres приложение не падает: чтения дашборда уйдут
// во встроенный набор, а миграции будут применены при первом обращении.
func openStore(ctx context.Context, cfg configs.StoreConfig, logger port.LoggerPort) (*openedStore, error) {
	storeLogger := logger.WithFields(port.Fields{"component": "store_init", "driver": cfg.Driver})

	if !cfg.Configured() {
		storeLogger.Warn("Listing store is not configured, serving bundled dataset only", nil)
		return &openedStore{store: nullstore.New("listing store is not configured"), close: func() {}}, nil
	}

	switch cfg.Driver {
	case configs.StoreDriverSQLite:
		store, err := sqlite_adapter.Open(cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := store.Migrate(storeLogger); err != nil {
				store.Close()
				return nil, fmt.Errorf("failed to migrate sqlite store: %w", err)
			}
		}
		storeLogger.Info("SQLite listing store opened", port.Fields{"path": cfg.URL})
		return &openedStore{store: store, close: func() { store.Close() }}, nil

	default:
		pool, err := postgres.NewClient(ctx, postgres.Config{
			DatabaseURL:     cfg.URL,
			Password:        cfg.Key,
			MaxConnIdleTime: 5 * time.Minute,
		})
		if err != nil {
			storeLogger.Error("Failed to create PostgreSQL pool", err, nil)
			return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
		}
		store, err := postgres_adapter.NewPostgresListingStore(pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create postgres listing store: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		pingErr := store.Ping(pingCtx)
		cancel()
		if pingErr != nil {
			storeLogger.Warn("PostgreSQL is unreachable at startup, reads will be degraded", port.Fields{"error": pingErr.Error()})
			if cfg.MigrateOnStart {
				migrate := func() error { return postgres_adapter.Migrate(cfg.URL, cfg.Key, storeLogger) }
				return &openedStore{store: newDeferredMigrationStore(store, migrate, storeLogger), close: pool.Close}, nil
			}
		} else if cfg.MigrateOnStart {
			if err := postgres_adapter.Migrate(cfg.URL, cfg.Key, storeLogger); err != nil {
				storeLogger.Error("Failed to apply migrations", err, nil)
				pool.Close()
				return nil, fmt.Errorf("failed to migrate postgres store: %w", err)
			}
			storeLogger.Info("Migrations applied", nil)
		}
		return &openedStore{store: store, close: pool.Close}, nil
	}
}

// openDataset - встроенный набор или файл из SEED_DATA_PATH.
func openDataset(cfg configs.SeedConfig, logger port.LoggerPort) (*seeddata.Dataset, error) {
	if cfg.DataPath == "" {
		return seeddata.NewBundledDataset(), nil
	}
	dataset, err := seeddata.NewFileDataset(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed dataset: %w", err)
	}
	logger.Info("Seed dataset loaded from file", port.Fields{"source": dataset.Source()})
	return dataset, nil
}
