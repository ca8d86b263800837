package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error)
}
