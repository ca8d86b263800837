package sqlite

import (
	"context"
	"errors"
	"math"
	"net/url"
	"reflect"
	"testing"
	"time"

	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
)

func newTestStore(t *testing.T) *SQLiteListingStore {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(contextkeys.LoggerFromContext(context.Background())); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func ptr(v int64) *int64 { return &v }

// fixture покрывает регистр, не-ASCII символы и метасимволы LIKE.
func fixture() []domain.Listing {
	return []domain.Listing{
		{ID: 1, Title: "Sea View Villa", Type: "Villa", SaleMode: "Resale", Usage: "Residential", Price: 9000000, Area: 3000, City: "Mumbai", Locality: "Juhu", Lat: 19.1, Lng: 72.8, Images: []string{"a.jpg"}},
		{ID: 2, Title: "City Office", Type: "Office", SaleMode: "Fresh", Usage: "Commercial", Price: 5000000, Area: 1200, City: "Pune", Locality: "Baner", Lat: 18.5, Lng: 73.8, Images: []string{}},
		{ID: 3, Title: "50% Ready Plot", Type: "Plot", SaleMode: "Fresh", Usage: "Residential", Price: 5000000, Area: 2000, City: "Nashik", Locality: "Gangapur_Road", Lat: 20.0, Lng: 73.7, Images: []string{}},
		{ID: 4, Title: "Café Corner Shop", Type: "Shop", SaleMode: "Resale", Usage: "Commercial", Price: 2500000, Area: 300, City: "Panaji", Locality: "FONTAINHAS", Lat: 15.5, Lng: 73.8, Images: []string{}},
		{ID: 5, Title: "Riverside Warehouse", Type: "Warehouse", SaleMode: "Fresh", Usage: "Commercial", Price: 0, Area: 10000, City: "Kolkata", Locality: `Howrah\Dock`, Lat: math.NaN(), Lng: math.NaN(), Images: []string{}},
		{ID: 6, Title: "Mumbai Highway Land", Type: "Land", SaleMode: "Resale", Usage: "Commercial", Price: 12000000, Area: 50000, City: "Thane", Locality: "Bhiwandi", Lat: 19.3, Lng: 73.0, Images: []string{}},
	}
}

func ids(listings []domain.Listing) []int64 {
	out := make([]int64, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestQueryAgreesWithInMemoryFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	all := fixture()
	if _, err := store.InsertListings(ctx, all); err != nil {
		t.Fatalf("insert: %v", err)
	}

	criteria := []domain.Criteria{
		{},
		{Type: domain.AllSentinel, SaleMode: domain.AllSentinel, Usage: domain.AllSentinel},
		{Type: "Villa"},
		{SaleMode: "Fresh"},
		{Usage: "Commercial", SaleMode: "Resale"},
		{MinPrice: ptr(5000000)},
		{MaxPrice: ptr(5000000)},
		{MinPrice: ptr(5000000), MaxPrice: ptr(5000000)},
		{MinPrice: ptr(9000001), MaxPrice: ptr(100)},
		{MaxPrice: ptr(0)},
		{Search: "mumbai"},
		{Search: "MUMBAI"},
		{Search: "pune"},
		{Search: "50%"},
		{Search: "%"},
		{Search: "_"},
		{Search: "r_r"},
		{Search: `\`},
		{Search: "café"},
		{Search: "CAFÉ"},
		{Search: "fontainhas"},
		{Search: "zzz"},
		{Search: "a", Usage: "Commercial", MinPrice: ptr(1)},
		{Type: "Nonexistent"},
	}

	for _, c := range criteria {
		t.Run(c.Values().Encode(), func(t *testing.T) {
			fromStore, err := store.ListListings(ctx, c)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			want := ids(domain.FilterListings(all, c))
			if got := ids(fromStore); !reflect.DeepEqual(got, want) {
				t.Fatalf("store returned %v, in-memory filter returned %v", got, want)
			}
		})
	}
}

func TestQueryAgreesWithInMemoryFilter_InvalidUTF8(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	all := append(fixture(), domain.Listing{
		ID: 7, Title: "bad \xff byte", Type: "Plot", SaleMode: "Fresh", Usage: "Residential",
		City: "Pune", Locality: "Kothrud", Lat: 18.5, Lng: 73.8, Images: []string{},
	})
	if _, err := store.InsertListings(ctx, all); err != nil {
		t.Fatalf("insert: %v", err)
	}

	criteria := []domain.Criteria{
		domain.ParseCriteria(url.Values{"search": {"\xfe"}}),
		domain.ParseCriteria(url.Values{"search": {"BAD \xff"}}),
		{Search: "\xfe"},
	}
	for _, c := range criteria {
		t.Run(c.Values().Encode(), func(t *testing.T) {
			fromStore, err := store.ListListings(ctx, c)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			want := ids(domain.FilterListings(all, c))
			if got := ids(fromStore); !reflect.DeepEqual(got, want) {
				t.Fatalf("store returned %v, in-memory filter returned %v", got, want)
			}
			if !reflect.DeepEqual(want, []int64{7}) {
				t.Fatalf("expected only listing 7, got %v", want)
			}
		})
	}
}

func TestListListings_RoundTripsFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	all := fixture()
	if _, err := store.InsertListings(ctx, all); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetListing(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*got, all[0]) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, all[0])
	}

	missingCoords, err := store.GetListing(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if missingCoords.Placeable() {
		t.Fatal("listing stored without coordinates must not be placeable")
	}
}

func TestGetListing_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetListing(context.Background(), 42)
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestInsertListings_BatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	batch := fixture()[:3]
	batch[2].ID = batch[0].ID // нарушение первичного ключа в середине пакета
	if _, err := store.InsertListings(ctx, batch); err == nil {
		t.Fatal("expected duplicate key error")
	}

	count, err := store.CountListings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("failed batch left %d rows behind", count)
	}
}

func TestInsertEnquiry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.InsertEnquiry(ctx, domain.Enquiry{
		Name: "Asha", Mobile: "9999999999", Email: "asha@example.com", Message: "Is it available?",
		PropertyID: ptr(999), CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	if _, err := store.InsertEnquiry(ctx, domain.Enquiry{Name: "B", Mobile: "1", Email: "b@x", Message: "general", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	n, err := store.CountEnquiries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 enquiries, got %d", n)
	}
}

func TestMigrate_IsRepeatable(t *testing.T) {
	store := newTestStore(t)
	if err := store.Migrate(contextkeys.LoggerFromContext(context.Background())); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
