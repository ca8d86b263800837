package usecase

import (
	"context"
	"errors"
	"testing"

	"estatemap/internal/core/domain"
)

func TestFindListings_PropagatesStoreError(t *testing.T) {
	uc := NewFindListingsUseCase(&stubStore{listErr: errStoreDown})
	if _, err := uc.Execute(context.Background(), domain.Criteria{}); !errors.Is(err, errStoreDown) {
		t.Fatalf("got %v", err)
	}
}

func TestFindListings_PassesCriteriaToStore(t *testing.T) {
	store := &stubStore{listings: generated(10)}
	criteria := domain.Criteria{Usage: domain.UsageCommercial}

	got, err := NewFindListingsUseCase(store).Execute(context.Background(), criteria)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 || store.listCriteria[0] != criteria {
		t.Errorf("got %d listings, criteria %+v", len(got), store.listCriteria)
	}
}

func TestLoadDashboard(t *testing.T) {
	bundled := generated(4)
	tests := []struct {
		name       string
		store      *stubStore
		wantReason string
		wantIDs    int
	}{
		{"store data", &stubStore{listings: generated(6)}, "", 3},
		{"empty store", &stubStore{}, domain.DegradedStoreEmpty, 2},
		{"store failure", &stubStore{listErr: errStoreDown}, domain.DegradedStoreUnavailable, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewLoadDashboardUseCase(tt.store, stubDataset{listings: bundled})
			view, err := uc.Execute(context.Background(), domain.Criteria{Usage: domain.UsageCommercial})
			if err != nil {
				t.Fatal(err)
			}
			if view.Degraded != (tt.wantReason != "") || view.DegradedReason != tt.wantReason {
				t.Errorf("degraded=%v reason=%q", view.Degraded, view.DegradedReason)
			}
			if len(view.Listings) != tt.wantIDs {
				t.Errorf("got %d listings, want %d", len(view.Listings), tt.wantIDs)
			}
			if view.FilterOptions.Types[0] != domain.AllSentinel {
				t.Error("filter options missing")
			}
		})
	}
}

func TestLoadDashboard_DatasetFailure(t *testing.T) {
	uc := NewLoadDashboardUseCase(&stubStore{listErr: errStoreDown}, stubDataset{err: errors.New("corrupt")})
	if _, err := uc.Execute(context.Background(), domain.Criteria{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestListMarkers_SkipsListingsWithoutCoordinates(t *testing.T) {
	uc := NewListMarkersUseCase(&stubStore{listings: generated(14)}, stubDataset{})

	view, err := uc.Execute(context.Background(), domain.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Markers) != 12 || view.Skipped != 2 {
		t.Fatalf("markers=%d skipped=%d", len(view.Markers), view.Skipped)
	}
	if view.Markers[0].Geohash == "" || view.Markers[0].Geohash[:3] != "tek" {
		t.Errorf("geohash = %q", view.Markers[0].Geohash)
	}
	if view.Viewport.Zoom != domain.ListingsMapZoom || view.Viewport.CenterLat != 18.52 {
		t.Errorf("viewport = %+v", view.Viewport)
	}
}

func TestListMarkers_Viewport(t *testing.T) {
	listings := []domain.Listing{
		{ID: 1, Lat: 19.10, Lng: 72.83},
		{ID: 2, Lat: 12.97, Lng: 77.64},
		{ID: 3, Lat: 28.61, Lng: 77.21},
	}
	view, err := NewListMarkersUseCase(&stubStore{listings: listings}, stubDataset{}).Execute(context.Background(), domain.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	want := domain.GeoBounds{MinLat: 12.97, MinLng: 72.83, MaxLat: 28.61, MaxLng: 77.64}
	if view.Viewport.Bounds == nil || *view.Viewport.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", view.Viewport.Bounds, want)
	}
	if view.Viewport.CenterLat != 19.10 || view.Viewport.CenterLng != 72.83 {
		t.Errorf("center = %v, %v", view.Viewport.CenterLat, view.Viewport.CenterLng)
	}
}

func TestListMarkers_DefaultViewportWithoutMarkers(t *testing.T) {
	store := &stubStore{listings: []domain.Listing{{ID: 1, Title: "Nowhere", Lat: 200, Lng: 0}}}
	view, err := NewListMarkersUseCase(store, stubDataset{}).Execute(context.Background(), domain.Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	v := view.Viewport
	if v.Bounds != nil || v.Zoom != domain.DefaultMapZoom || v.CenterLat != domain.DefaultMapCenterLat {
		t.Errorf("viewport = %+v", v)
	}
}

func TestGetListing(t *testing.T) {
	bundled := generated(3)
	bundled[1].Title = "Bundled"

	t.Run("found in store", func(t *testing.T) {
		uc := NewGetListingUseCase(&stubStore{listings: generated(3)}, stubDataset{listings: bundled})
		d, err := uc.Execute(context.Background(), 2)
		if err != nil || d.Degraded || d.Listing.ID != 2 {
			t.Fatalf("detail=%+v err=%v", d, err)
		}
	})
	t.Run("not found is not a fallback", func(t *testing.T) {
		uc := NewGetListingUseCase(&stubStore{}, stubDataset{listings: bundled})
		if _, err := uc.Execute(context.Background(), 2); !errors.Is(err, domain.ErrListingNotFound) {
			t.Fatalf("got %v", err)
		}
	})
	t.Run("store failure falls back", func(t *testing.T) {
		uc := NewGetListingUseCase(&stubStore{getErr: errStoreDown}, stubDataset{listings: bundled})
		d, err := uc.Execute(context.Background(), 2)
		if err != nil || !d.Degraded || d.Listing.Title != "Bundled" {
			t.Fatalf("detail=%+v err=%v", d, err)
		}
	})
	t.Run("store failure with id outside bundled dataset", func(t *testing.T) {
		uc := NewGetListingUseCase(&stubStore{getErr: errStoreDown}, stubDataset{listings: bundled})
		_, err := uc.Execute(context.Background(), 99)
		if !errors.Is(err, errStoreDown) {
			t.Fatalf("store failure must surface, got %v", err)
		}
		if errors.Is(err, domain.ErrListingNotFound) {
			t.Fatal("store failure must not be reported as not found")
		}
	})
}

func TestCheckHealth(t *testing.T) {
	if s := NewCheckHealthUseCase(&stubStore{}).Execute(context.Background()); !s.StoreReachable {
		t.Error("healthy store reported unreachable")
	}
	s := NewCheckHealthUseCase(&stubStore{listErr: errStoreDown}).Execute(context.Background())
	if s.StoreReachable || s.StoreError == "" {
		t.Errorf("status = %+v", s)
	}
}
