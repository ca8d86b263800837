package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type SeedListingsUseCase interface {
	Execute(ctx context.Context) (*domain.SeedResult, error)
}
