package internal

import (
	"context"
	"errors"
	"estatemap/internal/configs"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"estatemap/internal/core/usecase"
	"fmt"
)

// RunSeed - загрузка встроенного набора без HTTP-сервера (cmd/estatemap-seed).
// В отличие от API, ненастроенное хранилище здесь - ошибка.
func RunSeed(ctx context.Context) (*domain.SeedResult, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	if !cfg.Store.Configured() {
		return nil, fmt.Errorf("listing store is not configured: set LISTING_STORE_URL and LISTING_STORE_KEY")
	}

	baseLogger, fluentClient, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	if fluentClient != nil {
		defer fluentClient.Close()
	}
	logger := baseLogger.WithFields(port.Fields{"component": "seed_cli"})

	opened, err := openStore(ctx, cfg.Store, baseLogger)
	if err != nil {
		return nil, err
	}
	defer opened.close()

	dataset, err := openDataset(cfg.Seed, logger)
	if err != nil {
		return nil, err
	}

	ctx = contextkeys.ContextWithLogger(ctx, logger)
	result, err := usecase.NewSeedListingsUseCase(opened.store, dataset, cfg.Seed.BatchSize).Execute(ctx)
	if err != nil {
		var batchErr *domain.SeedBatchError
		if errors.As(err, &batchErr) {
			logger.Error("Seed stopped on failed batch", err, port.Fields{"inserted_count": batchErr.InsertedCount})
		}
		return nil, err
	}
	return result, nil
}
