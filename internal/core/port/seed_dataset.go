package port

import (
	"context"
	"estatemap/internal/core/domain"
)

// SeedDataset - встроенный набор объектов для первичной загрузки и
// деградированного чтения.
type SeedDataset interface {
	Listings(ctx context.Context) ([]domain.Listing, error)
}
