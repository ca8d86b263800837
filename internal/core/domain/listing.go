package domain

import "math"

// Значения перечислений в том виде, в котором их хранит таблица properties
// и отправляет дашборд.
const (
	TypeLand      = "Land"
	TypePlot      = "Plot"
	TypeFlat      = "Flat"
	TypeVilla     = "Villa"
	TypeOffice    = "Office"
	TypeShop      = "Shop"
	TypeWarehouse = "Warehouse"

	SaleModeFresh  = "Fresh"
	SaleModeResale = "Resale"

	UsageResidential = "Residential"
	UsageCommercial  = "Commercial"

	// AllSentinel означает "без ограничения" для перечислимых фильтров.
	AllSentinel = "All"
)

var (
	ListingTypes = []string{TypeLand, TypePlot, TypeFlat, TypeVilla, TypeOffice, TypeShop, TypeWarehouse}
	SaleModes    = []string{SaleModeFresh, SaleModeResale}
	Usages       = []string{UsageResidential, UsageCommercial}
)

// Listing - объект недвижимости.
type Listing struct {
	ID          int64
	Title       string
	Type        string
	SaleMode    string
	Usage       string
	Price       int64
	Area        float64
	City        string
	Locality    string
	Lat         float64
	Lng         float64
	Images      []string
	Description string
}

// Placeable reports whether the listing has coordinates a map can use.
func (l Listing) Placeable() bool {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// FilterOptions - значения для выпадающих списков фильтра, sentinel первым.
type FilterOptions struct {
	Types     []string
	SaleModes []string
	Usages    []string
}

func DefaultFilterOptions() FilterOptions {
	withSentinel := func(values []string) []string {
		out := make([]string, 0, len(values)+1)
		out = append(out, AllSentinel)
		return append(out, values...)
	}
	return FilterOptions{
		Types:     withSentinel(ListingTypes),
		SaleModes: withSentinel(SaleModes),
		Usages:    withSentinel(Usages),
	}
}
