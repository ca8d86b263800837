package port

import (
	"context"
	"estatemap/internal/core/domain"
)

// ListingStore - хранилище объектов и заявок (таблицы properties и enquiries).
type ListingStore interface {
	// ListListings возвращает объекты, удовлетворяющие критериям, по возрастанию id.
	ListListings(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error)
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	CountListings(ctx context.Context) (int64, error)
	// InsertListings вставляет один пакет атомарно: либо все строки, либо ни одной.
	InsertListings(ctx context.Context, listings []domain.Listing) (int, error)
	InsertEnquiry(ctx context.Context, enquiry domain.Enquiry) (int64, error)
	Ping(ctx context.Context) error
}
