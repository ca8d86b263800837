package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	logger_adapter "estatemap/internal/adapters/logger"
	"estatemap/internal/adapters/seeddata"
	"estatemap/internal/contracts"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"estatemap/internal/core/usecase"

	"github.com/go-chi/chi/v5"
)

// fakeStore - хранилище в памяти с управляемыми сбоями.
type fakeStore struct {
	mu           sync.Mutex
	listings     []domain.Listing
	enquiries    []domain.Enquiry
	readErr      error
	failInsertAt int // номер вызова InsertListings (с 1), который вернет ошибку
	insertCalls  int
}

func (s *fakeStore) ListListings(_ context.Context, c domain.Criteria) ([]domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return domain.FilterListings(s.listings, c), nil
}

func (s *fakeStore) GetListing(_ context.Context, id int64) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	for _, l := range s.listings {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (s *fakeStore) CountListings(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return 0, s.readErr
	}
	return int64(len(s.listings)), nil
}

func (s *fakeStore) InsertListings(_ context.Context, batch []domain.Listing) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.failInsertAt == s.insertCalls {
		return 0, errors.New("connection reset by peer")
	}
	s.listings = append(s.listings, batch...)
	return len(batch), nil
}

func (s *fakeStore) InsertEnquiry(_ context.Context, e domain.Enquiry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enquiries = append(s.enquiries, e)
	return int64(len(s.enquiries)), nil
}

func (s *fakeStore) Ping(context.Context) error { return s.readErr }

func newTestRouter(t *testing.T, store port.ListingStore, batchSize int) http.Handler {
	t.Helper()
	registry, err := contracts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	dataset := seeddata.NewBundledDataset()
	h := NewEstateMapHandlers(
		usecase.NewFindListingsUseCase(store),
		usecase.NewLoadDashboardUseCase(store, dataset),
		usecase.NewListMarkersUseCase(store, dataset),
		usecase.NewGetListingUseCase(store, dataset),
		usecase.NewSubmitEnquiryUseCase(store, nil),
		usecase.NewSeedListingsUseCase(store, dataset, batchSize),
		usecase.NewCheckHealthUseCase(store),
		registry,
	)
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard, IsJSON: true})
	return NewRouter(ServerConfig{AllowedOrigins: []string{"*"}}, h, logger)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
}

func bundled(t *testing.T) []domain.Listing {
	t.Helper()
	listings, err := seeddata.NewBundledDataset().Listings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return listings
}

func TestFindListings_SaleModeKeyAndFilters(t *testing.T) {
	store := &fakeStore{listings: bundled(t)}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/properties?type=Villa&saleMode=Resale&search=juhu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(traceIDHeader) == "" {
		t.Error("X-Trace-ID header is missing")
	}

	var raw []map[string]interface{}
	decode(t, rec, &raw)
	if len(raw) != 1 {
		t.Fatalf("expected exactly the Juhu villa, got %d listings", len(raw))
	}
	if raw[0]["saleMode"] != "Resale" {
		t.Errorf("saleMode = %v", raw[0]["saleMode"])
	}
	if _, ok := raw[0]["sale_mode"]; ok {
		t.Error("response must not expose sale_mode")
	}
}

func TestFindListings_InvalidPriceIsIgnored(t *testing.T) {
	store := &fakeStore{listings: bundled(t)}
	router := newTestRouter(t, store, 0)

	var all, withJunk []ListingResponse
	decode(t, do(t, router, http.MethodGet, "/api/properties", ""), &all)
	decode(t, do(t, router, http.MethodGet, "/api/properties?minPrice=abc&maxPrice=", ""), &withJunk)
	if len(all) != len(withJunk) || len(all) == 0 {
		t.Fatalf("got %d and %d listings", len(all), len(withJunk))
	}
}

func TestFindListings_StoreFailureIs500(t *testing.T) {
	store := &fakeStore{readErr: errors.New("relation \"properties\" does not exist")}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/properties", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if !strings.Contains(body["error"].(string), "does not exist") {
		t.Errorf("error = %v", body["error"])
	}
}

func TestDashboard_DegradedWhenStoreFails(t *testing.T) {
	store := &fakeStore{readErr: errors.New("dial tcp: connection refused")}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/dashboard?usage=Commercial", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(degradedHeader); got != domain.DegradedStoreUnavailable {
		t.Errorf("%s = %q", degradedHeader, got)
	}
	var resp DashboardResponse
	decode(t, rec, &resp)
	if !resp.Degraded || len(resp.Properties) == 0 {
		t.Fatalf("expected degraded non-empty response, got %+v", resp)
	}
	for _, p := range resp.Properties {
		if p.Usage != domain.UsageCommercial {
			t.Errorf("listing %d has usage %q", p.ID, p.Usage)
		}
	}
	if resp.FilterOptions.Types[0] != domain.AllSentinel {
		t.Errorf("filter options must start with the sentinel: %v", resp.FilterOptions.Types)
	}
}

func TestDashboard_NotDegradedWithData(t *testing.T) {
	store := &fakeStore{listings: bundled(t)[:3]}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/dashboard", "")
	var resp DashboardResponse
	decode(t, rec, &resp)
	if resp.Degraded || len(resp.Properties) != 3 {
		t.Fatalf("degraded=%v, properties=%d", resp.Degraded, len(resp.Properties))
	}
	if rec.Header().Get(degradedHeader) != "" {
		t.Error("degraded header must be absent")
	}
}

func TestMarkers_SkipsUnplaceable(t *testing.T) {
	listings := bundled(t)[:2]
	listings[1].Lat = 123
	store := &fakeStore{listings: listings}
	router := newTestRouter(t, store, 0)

	var resp MarkersResponse
	decode(t, do(t, router, http.MethodGet, "/api/markers", ""), &resp)
	if len(resp.Markers) != 1 || resp.Skipped != 1 {
		t.Fatalf("markers=%d skipped=%d", len(resp.Markers), resp.Skipped)
	}
	if resp.Markers[0].Geohash == "" {
		t.Error("geohash is empty")
	}
}

func TestGetListing(t *testing.T) {
	store := &fakeStore{listings: bundled(t)}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/properties/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp ListingResponse
	decode(t, rec, &resp)
	if resp.Title != "Sea View Villa" {
		t.Errorf("title = %q", resp.Title)
	}

	if rec := do(t, router, http.MethodGet, "/api/properties/9999", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing listing: status = %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/properties/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d", rec.Code)
	}
}

func TestGetListing_FallsBackOnStoreFailure(t *testing.T) {
	store := &fakeStore{readErr: errors.New("timeout")}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/properties/2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(degradedHeader) == "" {
		t.Error("degraded header is missing")
	}

	if rec := do(t, router, http.MethodGet, "/api/properties/9999", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("unknown id while store is down: status = %d, want 500", rec.Code)
	}
}

func TestSubmitEnquiry(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodPost, "/api/enquiry",
		`{"name":"Asha","mobile":"9876543210","email":"asha@example.com","message":"Is it available?","propertyId":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp EnquiryResponse
	decode(t, rec, &resp)
	if !resp.Success || resp.Message != "Enquiry sent successfully!" {
		t.Errorf("response = %+v", resp)
	}
	if len(store.enquiries) != 1 || *store.enquiries[0].PropertyID != 3 {
		t.Fatalf("stored enquiries = %+v", store.enquiries)
	}
}

func TestSubmitEnquiry_MissingFieldsWritesNothing(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodPost, "/api/enquiry", `{"name":"Asha","mobile":"  ","email":null}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	decode(t, rec, &body)
	if body.Error != "Missing required fields" {
		t.Errorf("error = %q", body.Error)
	}
	want := []string{"mobile", "email", "message"}
	if strings.Join(body.Fields, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", body.Fields, want)
	}
	if len(store.enquiries) != 0 {
		t.Error("no enquiry row may be written")
	}
}

func TestSubmitEnquiry_ContractViolation(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store, 0)

	for _, body := range []string{
		`not json`,
		`{"name":"A","mobile":"1","email":"a@b.c","message":"m","budget":5}`,
		`{"name":"A","mobile":"1","email":"a@b.c","message":"m","propertyId":"x"}`,
	} {
		rec := do(t, router, http.MethodPost, "/api/enquiry", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
	}
	if len(store.enquiries) != 0 {
		t.Error("no enquiry row may be written")
	}
}

func TestSeed_TwiceIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(t, store, 0)

	rec := do(t, router, http.MethodGet, "/api/seed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var first SeedResponse
	decode(t, rec, &first)
	if !first.Success || first.InsertedCount == nil || *first.InsertedCount != 24 {
		t.Fatalf("first seed = %+v", first)
	}

	var second SeedResponse
	decode(t, do(t, router, http.MethodGet, "/api/seed", ""), &second)
	if second.Message != "Data already seeded" || second.Count == nil || *second.Count != 24 {
		t.Fatalf("second seed = %+v", second)
	}
	if len(store.listings) != 24 {
		t.Errorf("store holds %d listings", len(store.listings))
	}
}

func TestSeed_PartialFailureReportsInsertedCount(t *testing.T) {
	store := &fakeStore{failInsertAt: 2}
	router := newTestRouter(t, store, 10)

	rec := do(t, router, http.MethodGet, "/api/seed", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error         string `json:"error"`
		InsertedCount int    `json:"insertedCount"`
	}
	decode(t, rec, &body)
	if body.InsertedCount != 10 || body.Error == "" {
		t.Fatalf("body = %+v", body)
	}
	if len(store.listings) != 10 {
		t.Errorf("first batch must stay committed, store holds %d", len(store.listings))
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeStore{readErr: errors.New("down")}, 0)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	var resp HealthResponse
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Status != "degraded" || resp.StoreError != "down" {
		t.Fatalf("status = %d, resp = %+v", rec.Code, resp)
	}
}

type panickingFind struct{}

func (panickingFind) Execute(context.Context, domain.Criteria) ([]domain.Listing, error) {
	panic("boom")
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	h := &EstateMapHandlers{findUC: panickingFind{}}
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	r := NewRouter(ServerConfig{}, h, logger)

	rec := do(t, r, http.MethodGet, "/api/properties", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	var r chi.Routes = NewRouter(ServerConfig{}, &EstateMapHandlers{},
		logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard}))
	want := map[string]bool{
		"GET /healthz":                     false,
		"GET /api/properties":              false,
		"GET /api/properties/{propertyID}": false,
		"GET /api/dashboard":               false,
		"GET /api/markers":                 false,
		"POST /api/enquiry":                false,
		"GET /api/seed":                    false,
	}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if _, ok := want[method+" "+route]; ok {
			want[method+" "+route] = true
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for route, found := range want {
		if !found {
			t.Errorf("route %s is not registered", route)
		}
	}
}
