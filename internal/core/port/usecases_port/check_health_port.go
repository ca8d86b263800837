package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type CheckHealthUseCase interface {
	Execute(ctx context.Context) domain.HealthStatus
}
