package rest

import (
	"estatemap/internal/core/domain"
	"math"
)

// ListingResponse - объект в формате фронтенда. sale_mode из базы
// отдается как saleMode.
type ListingResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	SaleMode    string   `json:"saleMode"`
	Usage       string   `json:"usage"`
	Price       int64    `json:"price"`
	Area        float64  `json:"area"`
	City        string   `json:"city"`
	Locality    string   `json:"locality"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
}

type FilterOptionsResponse struct {
	Types     []string `json:"types"`
	SaleModes []string `json:"saleModes"`
	Usages    []string `json:"usages"`
}

type DashboardResponse struct {
	Properties     []ListingResponse     `json:"properties"`
	Degraded       bool                  `json:"degraded"`
	DegradedReason string                `json:"degradedReason,omitempty"`
	FilterOptions  FilterOptionsResponse `json:"filterOptions"`
}

type MarkerResponse struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Price   int64   `json:"price"`
	Type    string  `json:"type"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Geohash string  `json:"geohash"`
}

type BoundsResponse struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type ViewportResponse struct {
	Center [2]float64      `json:"center"` // [lat, lng], как у Leaflet
	Zoom   int             `json:"zoom"`
	Bounds *BoundsResponse `json:"bounds"`
}

type MarkersResponse struct {
	Markers        []MarkerResponse `json:"markers"`
	Skipped        int              `json:"skipped"`
	Viewport       ViewportResponse `json:"viewport"`
	Degraded       bool             `json:"degraded"`
	DegradedReason string           `json:"degradedReason,omitempty"`
}

// EnquiryRequest - тело POST /api/enquiry. Указатели, чтобы принять null.
type EnquiryRequest struct {
	Name       *string `json:"name"`
	Mobile     *string `json:"mobile"`
	Email      *string `json:"email"`
	Message    *string `json:"message"`
	PropertyID *int64  `json:"propertyId"`
}

func (r EnquiryRequest) toDomain() domain.Enquiry {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return domain.Enquiry{
		Name:       deref(r.Name),
		Mobile:     deref(r.Mobile),
		Email:      deref(r.Email),
		Message:    deref(r.Message),
		PropertyID: r.PropertyID,
	}
}

type EnquiryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SeedResponse struct {
	Success       bool   `json:"success,omitempty"`
	Message       string `json:"message"`
	Count         *int64 `json:"count,omitempty"`
	InsertedCount *int   `json:"insertedCount,omitempty"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Store      string `json:"store"`
	StoreError string `json:"storeError,omitempty"`
}

func toViewportResponse(v domain.MapViewport) ViewportResponse {
	resp := ViewportResponse{Center: [2]float64{v.CenterLat, v.CenterLng}, Zoom: v.Zoom}
	if v.Bounds != nil {
		resp.Bounds = &BoundsResponse{
			South: v.Bounds.MinLat,
			West:  v.Bounds.MinLng,
			North: v.Bounds.MaxLat,
			East:  v.Bounds.MaxLng,
		}
	}
	return resp
}

func toListingResponse(l domain.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Type:        l.Type,
		SaleMode:    l.SaleMode,
		Usage:       l.Usage,
		Price:       l.Price,
		Area:        l.Area,
		City:        l.City,
		Locality:    l.Locality,
		Lat:         coord(l.Lat),
		Lng:         coord(l.Lng),
		Images:      images,
		Description: l.Description,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

// coord: NaN не сериализуется в JSON, отсутствующая координата отдается как null.
func coord(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
