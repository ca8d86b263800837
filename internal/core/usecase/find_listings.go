package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
)

// FindListingsUseCase - фильтрация на стороне хранилища (GET /api/properties).
// Ошибка хранилища пробрасывается, встроенный набор здесь не используется.
type FindListingsUseCase struct {
	store port.ListingStore
}

func NewFindListingsUseCase(store port.ListingStore) *FindListingsUseCase {
	return &FindListingsUseCase{store: store}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FindListings",
		"criteria": criteria.Values().Encode(),
	})
	ucLogger.Info("Use case started", nil)

	listings, err := uc.store.ListListings(ctx, criteria)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": len(listings)})
	return listings, nil
}
