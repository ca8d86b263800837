package usecase

import (
	"context"
	"errors"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
)

type GetListingUseCase struct {
	store   port.ListingStore
	dataset port.SeedDataset
}

func NewGetListingUseCase(store port.ListingStore, dataset port.SeedDataset) *GetListingUseCase {
	return &GetListingUseCase{store: store, dataset: dataset}
}

// Execute возвращает domain.ErrListingNotFound, если объекта нет. При сбое
// хранилища объект ищется во встроенном наборе.
func (uc *GetListingUseCase) Execute(ctx context.Context, id int64) (*domain.ListingDetail, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "GetListing",
		"listing_id": id,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.store.GetListing(ctx, id)
	if err == nil {
		ucLogger.Info("Use case finished successfully", nil)
		return &domain.ListingDetail{Listing: *listing}, nil
	}
	if errors.Is(err, domain.ErrListingNotFound) {
		ucLogger.Info("Listing not found", nil)
		return nil, err
	}

	ucLogger.Warn("Listing store read failed, looking up bundled dataset", port.Fields{"error": err.Error()})
	bundled, dsErr := uc.dataset.Listings(ctx)
	if dsErr != nil {
		ucLogger.Error("Bundled dataset could not be loaded", dsErr, nil)
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	for _, l := range bundled {
		if l.ID == id {
			return &domain.ListingDetail{Listing: l, Degraded: true}, nil
		}
	}
	// Отсутствие во встроенном наборе не значит, что объекта нет в хранилище.
	ucLogger.Error("Listing is not in bundled dataset while store is down", err, nil)
	return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
}
