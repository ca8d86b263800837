package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type ListMarkersUseCase interface {
	Execute(ctx context.Context, criteria domain.Criteria) (*domain.MarkersView, error)
}
