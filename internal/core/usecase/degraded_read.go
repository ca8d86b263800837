package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
)

// degradedReader читает объекты из хранилища, а если оно пустое или
// вернуло ошибку, отдает встроенный набор, отфильтрованный в памяти.
type degradedReader struct {
	store   port.ListingStore
	dataset port.SeedDataset
}

func (r degradedReader) read(ctx context.Context, criteria domain.Criteria) (*domain.ListingsView, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "degraded_reader"})

	// Хранилище спрашиваем без критериев: пустота таблицы определяется по
	// полному набору, фильтр применяется в процессе.
	listings, err := r.store.ListListings(ctx, domain.Criteria{})
	reason := ""
	switch {
	case err != nil:
		reason = domain.DegradedStoreUnavailable
		logger.Warn("Listing store read failed, serving bundled dataset", port.Fields{"error": err.Error()})
	case len(listings) == 0:
		reason = domain.DegradedStoreEmpty
		logger.Warn("Listing store is empty, serving bundled dataset", nil)
	}

	if reason != "" {
		listings, err = r.dataset.Listings(ctx)
		if err != nil {
			logger.Error("Bundled dataset could not be loaded", err, nil)
			return nil, fmt.Errorf("failed to load bundled dataset: %w", err)
		}
	}

	return &domain.ListingsView{
		Listings:       domain.FilterListings(listings, criteria),
		Degraded:       reason != "",
		DegradedReason: reason,
	}, nil
}
