package seeddata

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"math"
	"os"
)

//go:embed properties.json
var bundledProperties []byte

// listingRecord - формат объекта в properties.json (camelCase, как у фронтенда).
type listingRecord struct {
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

// Dataset - встроенный набор объектов. Данные декодируются при каждом вызове,
// так что вызывающий код может свободно менять полученный срез.
type Dataset struct {
	raw    []byte
	source string
}

// NewBundledDataset возвращает набор, вшитый в бинарник.
func NewBundledDataset() *Dataset {
	return &Dataset{raw: bundledProperties, source: "embedded:properties.json"}
}

// NewFileDataset читает набор из файла (SEED_DATA_PATH) и сразу проверяет его.
func NewFileDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed data file %s: %w", path, err)
	}
	d := &Dataset{raw: raw, source: path}
	if _, err := d.decode(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dataset) Source() string { return d.source }

func (d *Dataset) Listings(ctx context.Context) ([]domain.Listing, error) {
	listings, err := d.decode()
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to decode seed dataset", err, port.Fields{
			"component": "seed_dataset",
			"source":    d.source,
		})
		return nil, err
	}
	return listings, nil
}

func (d *Dataset) decode() ([]domain.Listing, error) {
	dec := json.NewDecoder(bytes.NewReader(d.raw))
	dec.DisallowUnknownFields()

	var records []listingRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode seed dataset %s: %w", d.source, err)
	}

	seen := make(map[int64]struct{}, len(records))
	listings := make([]domain.Listing, 0, len(records))
	for i, r := range records {
		if r.ID <= 0 {
			return nil, fmt.Errorf("seed dataset %s: record %d has no positive id", d.source, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("seed dataset %s: duplicate id %d", d.source, r.ID)
		}
		seen[r.ID] = struct{}{}

		images := r.Images
		if images == nil {
			images = []string{}
		}
		listings = append(listings, domain.Listing{
			ID:          r.ID,
			Title:       r.Title,
			Type:        r.Type,
			SaleMode:    r.SaleMode,
			Usage:       r.Usage,
			Price:       r.Price,
			Area:        r.Area,
			City:        r.City,
			Locality:    r.Locality,
			Lat:         coordOrNaN(r.Lat),
			Lng:         coordOrNaN(r.Lng),
			Images:      images,
			Description: r.Description,
		})
	}
	return listings, nil
}

// coordOrNaN: отсутствующая или null координата не должна превращаться в 0,
// иначе объект окажется на карте в точке (0,0).
func coordOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
