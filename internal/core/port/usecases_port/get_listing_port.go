package usecases_port

import (
	"context"
	"estatemap/internal/core/domain"
)

type GetListingUseCase interface {
	Execute(ctx context.Context, id int64) (*domain.ListingDetail, error)
}
