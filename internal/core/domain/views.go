package domain

// Причины деградированного чтения.
const (
	DegradedStoreUnavailable = "store_unavailable"
	DegradedStoreEmpty       = "store_empty"
)

// ListingsView - результат чтения для дашборда/карты. При Degraded=true
// данные взяты из встроенного набора, а не из хранилища.
type ListingsView struct {
	Listings       []Listing
	Degraded       bool
	DegradedReason string
}

// DashboardView - данные первой загрузки страницы.
type DashboardView struct {
	ListingsView
	FilterOptions FilterOptions
}

// Marker - точка на карте.
type Marker struct {
	ID      int64
	Title   string
	Price   int64
	Type    string
	Lat     float64
	Lng     float64
	Geohash string
}

type MarkersView struct {
	Markers        []Marker
	Skipped        int
	Degraded       bool
	DegradedReason string
	Viewport       MapViewport
}

// Начальный вид карты без объектов: центр Индии, крупный масштаб.
const (
	DefaultMapCenterLat = 20.5937
	DefaultMapCenterLng = 78.9629
	DefaultMapZoom      = 5
	ListingsMapZoom     = 10
)

// MapViewport - начальный вид карты: центр в первом маркере и рамка,
// охватывающая все маркеры (nil, если маркеров нет).
type MapViewport struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
	Bounds    *GeoBounds
}

type GeoBounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
}

// SeedResult - итог загрузки встроенного набора.
type SeedResult struct {
	AlreadySeeded bool
	ExistingCount int64
	InsertedCount int
}

// ListingDetail - карточка объекта; Degraded=true, если она взята из
// встроенного набора из-за сбоя хранилища.
type ListingDetail struct {
	Listing  Listing
	Degraded bool
}

// HealthStatus - состояние сервиса для /healthz.
type HealthStatus struct {
	StoreReachable bool
	StoreError     string
}
