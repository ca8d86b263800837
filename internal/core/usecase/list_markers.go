package usecase

import (
	"context"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"

	"github.com/mmcloughlin/geohash"
	"github.com/twpayne/go-geom"
)

// ListMarkersUseCase строит точки для карты. Объекты без пригодных
// координат пропускаются.
type ListMarkersUseCase struct {
	reader degradedReader
}

func NewListMarkersUseCase(store port.ListingStore, dataset port.SeedDataset) *ListMarkersUseCase {
	return &ListMarkersUseCase{reader: degradedReader{store: store, dataset: dataset}}
}

func (uc *ListMarkersUseCase) Execute(ctx context.Context, criteria domain.Criteria) (*domain.MarkersView, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListMarkers",
		"criteria": criteria.Values().Encode(),
	})
	ucLogger.Info("Use case started", nil)

	view, err := uc.reader.read(ctx, criteria)
	if err != nil {
		ucLogger.Error("Markers read failed", err, nil)
		return nil, err
	}

	result := &domain.MarkersView{
		Markers:        make([]domain.Marker, 0, len(view.Listings)),
		Degraded:       view.Degraded,
		DegradedReason: view.DegradedReason,
	}
	for _, l := range view.Listings {
		if !l.Placeable() {
			result.Skipped++
			continue
		}
		result.Markers = append(result.Markers, domain.Marker{
			ID:      l.ID,
			Title:   l.Title,
			Price:   l.Price,
			Type:    l.Type,
			Lat:     l.Lat,
			Lng:     l.Lng,
			Geohash: geohash.Encode(l.Lat, l.Lng),
		})
	}

	result.Viewport = viewportFor(result.Markers)

	if result.Skipped > 0 {
		ucLogger.Warn("Listings without usable coordinates were skipped", port.Fields{"skipped": result.Skipped})
	}
	ucLogger.Info("Use case finished successfully", port.Fields{
		"markers":  len(result.Markers),
		"degraded": result.Degraded,
	})
	return result, nil
}

func viewportFor(markers []domain.Marker) domain.MapViewport {
	if len(markers) == 0 {
		return domain.MapViewport{
			CenterLat: domain.DefaultMapCenterLat,
			CenterLng: domain.DefaultMapCenterLng,
			Zoom:      domain.DefaultMapZoom,
		}
	}

	// Координаты в порядке x=lng, y=lat.
	bounds := geom.NewBounds(geom.XY)
	for _, m := range markers {
		bounds.Extend(geom.NewPointFlat(geom.XY, []float64{m.Lng, m.Lat}))
	}

	return domain.MapViewport{
		CenterLat: markers[0].Lat,
		CenterLng: markers[0].Lng,
		Zoom:      domain.ListingsMapZoom,
		Bounds: &domain.GeoBounds{
			MinLat: bounds.Min(1),
			MinLng: bounds.Min(0),
			MaxLat: bounds.Max(1),
			MaxLng: bounds.Max(0),
		},
	}
}
