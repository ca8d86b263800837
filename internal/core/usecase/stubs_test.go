package usecase

import (
	"context"
	"errors"
	"math"
	"sync"

	"estatemap/internal/core/domain"
)

var errStoreDown = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

// stubStore - хранилище в памяти; каждый метод можно сломать отдельно.
type stubStore struct {
	mu        sync.Mutex
	listings  []domain.Listing
	enquiries []domain.Enquiry

	listErr      error
	getErr       error
	countErr     error
	enquiryErr   error
	failBatch    int // номер вызова InsertListings (с 1), который вернет ошибку
	batchSizes   []int
	listCriteria []domain.Criteria
}

func (s *stubStore) ListListings(_ context.Context, c domain.Criteria) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCriteria = append(s.listCriteria, c)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return domain.FilterListings(s.listings, c), nil
}

func (s *stubStore) GetListing(_ context.Context, id int64) (*domain.Listing, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, l := range s.listings {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (s *stubStore) CountListings(context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.listings)), nil
}

func (s *stubStore) InsertListings(_ context.Context, batch []domain.Listing) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchSizes = append(s.batchSizes, len(batch))
	if s.failBatch == len(s.batchSizes) {
		return 0, errors.New("unique violation")
	}
	s.listings = append(s.listings, batch...)
	return len(batch), nil
}

func (s *stubStore) InsertEnquiry(_ context.Context, e domain.Enquiry) (int64, error) {
	if s.enquiryErr != nil {
		return 0, s.enquiryErr
	}
	s.enquiries = append(s.enquiries, e)
	return int64(len(s.enquiries)), nil
}

func (s *stubStore) Ping(context.Context) error { return s.listErr }

type stubDataset struct {
	listings []domain.Listing
	err      error
}

func (d stubDataset) Listings(context.Context) ([]domain.Listing, error) {
	if d.err != nil {
		return nil, d.err
	}
	return append([]domain.Listing(nil), d.listings...), nil
}

// generated возвращает n объектов с id 1..n; у каждого седьмого нет координат.
func generated(n int) []domain.Listing {
	out := make([]domain.Listing, 0, n)
	for i := 1; i <= n; i++ {
		l := domain.Listing{
			ID:       int64(i),
			Title:    "Listing",
			Type:     domain.TypeFlat,
			SaleMode: domain.SaleModeFresh,
			Usage:    domain.UsageResidential,
			Price:    int64(i) * 1000000,
			City:     "Pune",
			Lat:      18.52,
			Lng:      73.85,
		}
		if i%7 == 0 {
			l.Lat, l.Lng = math.NaN(), math.NaN()
		}
		if i%2 == 0 {
			l.Usage = domain.UsageCommercial
		}
		out = append(out, l)
	}
	return out
}

type recordingEvents struct {
	published []domain.Enquiry
	err       error
}

func (r *recordingEvents) PublishEnquiryReceived(_ context.Context, e domain.Enquiry) error {
	r.published = append(r.published, e)
	return r.err
}
