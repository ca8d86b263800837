package internal

import (
	"context"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"sync"
	"time"
)

// migrationRetryInterval - как часто повторять миграции, пока база недоступна.
const migrationRetryInterval = 5 * time.Second

// deferredMigrationStore применяет миграции при первом обращении к хранилищу,
// если на старте Postgres была недоступна. До успешной миграции каждый вызов
// возвращает ошибку, и чтения уходят во встроенный набор.
type deferredMigrationStore struct {
	port.ListingStore
	migrate func() error
	logger  port.LoggerPort
	now     func() time.Time

	mu          sync.Mutex
	done        bool
	lastAttempt time.Time
	lastErr     error
}

func newDeferredMigrationStore(store port.ListingStore, migrate func() error, logger port.LoggerPort) *deferredMigrationStore {
	return &deferredMigrationStore{
		ListingStore: store,
		migrate:      migrate,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *deferredMigrationStore) ensureMigrated() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}
	if s.lastErr != nil && s.now().Sub(s.lastAttempt) < migrationRetryInterval {
		return s.lastErr
	}

	s.lastAttempt = s.now()
	if err := s.migrate(); err != nil {
		s.lastErr = fmt.Errorf("store is not migrated yet: %w", err)
		s.logger.Warn("Deferred migrations failed, will retry", port.Fields{"error": err.Error()})
		return s.lastErr
	}
	s.done = true
	s.lastErr = nil
	s.logger.Info("Deferred migrations applied", nil)
	return nil
}

func (s *deferredMigrationStore) ListListings(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error) {
	if err := s.ensureMigrated(); err != nil {
		return nil, err
	}
	return s.ListingStore.ListListings(ctx, criteria)
}

func (s *deferredMigrationStore) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	if err := s.ensureMigrated(); err != nil {
		return nil, err
	}
	return s.ListingStore.GetListing(ctx, id)
}

func (s *deferredMigrationStore) CountListings(ctx context.Context) (int64, error) {
	if err := s.ensureMigrated(); err != nil {
		return 0, err
	}
	return s.ListingStore.CountListings(ctx)
}

func (s *deferredMigrationStore) InsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	if err := s.ensureMigrated(); err != nil {
		return 0, err
	}
	return s.ListingStore.InsertListings(ctx, listings)
}

func (s *deferredMigrationStore) InsertEnquiry(ctx context.Context, enquiry domain.Enquiry) (int64, error) {
	if err := s.ensureMigrated(); err != nil {
		return 0, err
	}
	return s.ListingStore.InsertEnquiry(ctx, enquiry)
}
