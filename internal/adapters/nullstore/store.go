package nullstore

import (
	"context"
	"estatemap/internal/core/domain"
	"fmt"
)

// Store - хранилище-заглушка для запуска без LISTING_STORE_URL/KEY.
// Каждый вызов возвращает domain.ErrStoreUnavailable с причиной.
type Store struct {
	reason string
}

func New(reason string) *Store {
	return &Store{reason: reason}
}

func (s *Store) err() error {
	return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, s.reason)
}

func (s *Store) ListListings(context.Context, domain.Criteria) ([]domain.Listing, error) {
	return nil, s.err()
}

func (s *Store) GetListing(context.Context, int64) (*domain.Listing, error) {
	return nil, s.err()
}

func (s *Store) CountListings(context.Context) (int64, error) {
	return 0, s.err()
}

func (s *Store) InsertListings(context.Context, []domain.Listing) (int, error) {
	return 0, s.err()
}

func (s *Store) InsertEnquiry(context.Context, domain.Enquiry) (int64, error) {
	return 0, s.err()
}

func (s *Store) Ping(context.Context) error {
	return s.err()
}
