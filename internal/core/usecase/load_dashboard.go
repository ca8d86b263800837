package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
)

type LoadDashboardUseCase struct {
	reader degradedReader
}

func NewLoadDashboardUseCase(store port.ListingStore, dataset port.SeedDataset) *LoadDashboardUseCase {
	return &LoadDashboardUseCase{reader: degradedReader{store: store, dataset: dataset}}
}

func (uc *LoadDashboardUseCase) Execute(ctx context.Context, criteria domain.Criteria) (*domain.DashboardView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "LoadDashboard",
		"criteria": criteria.Values().Encode(),
	})
	ucLogger.Info("Use case started", nil)

	view, err := uc.reader.read(ctx, criteria)
	if err != nil {
		ucLogger.Error("Dashboard read failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":     len(view.Listings),
		"degraded":        view.Degraded,
		"degraded_reason": view.DegradedReason,
	})
	return &domain.DashboardView{
		ListingsView:  *view,
		FilterOptions: domain.DefaultFilterOptions(),
	}, nil
}
