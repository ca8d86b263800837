package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"time"
)

type CheckHealthUseCase struct {
	store   port.ListingStore
	timeout time.Duration
}

func NewCheckHealthUseCase(store port.ListingStore) *CheckHealthUseCase {
	return &CheckHealthUseCase{store: store, timeout: 2 * time.Second}
}

func (uc *CheckHealthUseCase) Execute(ctx context.Context) domain.HealthStatus {
	pingCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.store.Ping(pingCtx); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Listing store ping failed", port.Fields{"error": err.Error()})
		return domain.HealthStatus{StoreReachable: false, StoreError: err.Error()}
	}
	return domain.HealthStatus{StoreReachable: true}
}
