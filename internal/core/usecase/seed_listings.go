package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
)

const DefaultSeedBatchSize = 50

// SeedListingsUseCase загружает встроенный набор в пустое хранилище пакетами.
// Пакеты фиксируются независимо; при сбое уже вставленные строки остаются,
// а повторный вызов увидит count > 0 и ничего не сделает.
type SeedListingsUseCase struct {
	store     port.ListingStore
	dataset   port.SeedDataset
	batchSize int
}

func NewSeedListingsUseCase(store port.ListingStore, dataset port.SeedDataset, batchSize int) *SeedListingsUseCase {
	if batchSize <= 0 {
		batchSize = DefaultSeedBatchSize
	}
	return &SeedListingsUseCase{store: store, dataset: dataset, batchSize: batchSize}
}

func (uc *SeedListingsUseCase) Execute(ctx context.Context) (*domain.SeedResult, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "SeedListings",
		"batch_size": uc.batchSize,
	})
	ucLogger.Info("Use case started", nil)

	count, err := uc.store.CountListings(ctx)
	if err != nil {
		ucLogger.Error("Failed to count listings", err, nil)
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	if count > 0 {
		ucLogger.Info("Store already seeded, skipping", port.Fields{"existing_count": count})
		return &domain.SeedResult{AlreadySeeded: true, ExistingCount: count}, nil
	}

	listings, err := uc.dataset.Listings(ctx)
	if err != nil {
		ucLogger.Error("Bundled dataset could not be loaded", err, nil)
		return nil, fmt.Errorf("failed to load bundled dataset: %w", err)
	}

	inserted := 0
	for start, batch := 0, 0; start < len(listings); start, batch = start+uc.batchSize, batch+1 {
		end := min(start+uc.batchSize, len(listings))
		n, err := uc.store.InsertListings(ctx, listings[start:end])
		if err != nil {
			ucLogger.Error("Seed batch failed, stopping", err, port.Fields{
				"batch":          batch,
				"inserted_count": inserted,
			})
			return nil, &domain.SeedBatchError{InsertedCount: inserted, BatchIndex: batch, Err: err}
		}
		inserted += n
		ucLogger.Debug("Seed batch committed", port.Fields{"batch": batch, "rows": n})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"inserted_count": inserted})
	return &domain.SeedResult{InsertedCount: inserted}, nil
}
