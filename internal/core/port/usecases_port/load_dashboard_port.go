package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type LoadDashboardUseCase interface {
	Execute(ctx context.Context, criteria domain.Criteria) (*domain.DashboardView, error)
}
