package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
)

const listingColumns = "id, title, type, sale_mode, usage, price, area, city, locality, lat, lng, images, description"

type listingRow struct {
	ID          int64           `db:"id"`
	Title       string          `db:"title"`
	Type        string          `db:"type"`
	SaleMode    string          `db:"sale_mode"`
	Usage       string          `db:"usage"`
	Price       int64           `db:"price"`
	Area        float64         `db:"area"`
	City        string          `db:"city"`
	Locality    string          `db:"locality"`
	Lat         sql.NullFloat64 `db:"lat"`
	Lng         sql.NullFloat64 `db:"lng"`
	Images      string          `db:"images"`
	Description string          `db:"description"`
}

type enquiryRow struct {
	Name       string        `db:"name"`
	Mobile     string        `db:"mobile"`
	Email      string        `db:"email"`
	Message    string        `db:"message"`
	PropertyID sql.NullInt64 `db:"property_id"`
	CreatedAt  string        `db:"created_at"`
}

// SQLiteListingStore - port.ListingStore поверх go-sqlite3 (локальный
// запуск и тесты). Картинки хранятся JSON-массивом в TEXT.
type SQLiteListingStore struct {
	db *sqlx.DB
}

// Open открывает базу по пути (или ":memory:"). Соединение одно: у SQLite
// один писатель, а база в памяти живет только в своем соединении.
func Open(path string) (*SQLiteListingStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	registerDriver()

	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLiteListingStore{db: db}, nil
}

func (s *SQLiteListingStore) DB() *sql.DB { return s.db.DB }

func (s *SQLiteListingStore) Close() error { return s.db.Close() }

func (s *SQLiteListingStore) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SQLiteListingStore",
		"method":    method,
	})
}

func (s *SQLiteListingStore) ListListings(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error) {
	whereClause, args := compile(criteria)
	query := fmt.Sprintf("SELECT %s FROM properties %s ORDER BY id", listingColumns, whereClause)

	var rows []listingRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger(ctx, "ListListings").Error("Failed to query listings", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}

	listings := make([]domain.Listing, 0, len(rows))
	for _, r := range rows {
		l, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (s *SQLiteListingStore) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	var r listingRow
	err := s.db.GetContext(ctx, &r, fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", listingColumns), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		s.logger(ctx, "GetListing").Error("Failed to get listing", err, port.Fields{"listing_id": id})
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	l, err := r.toDomain()
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLiteListingStore) CountListings(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM properties"); err != nil {
		s.logger(ctx, "CountListings").Error("Failed to count listings", err, nil)
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// InsertListings вставляет пакет в одной транзакции.
func (s *SQLiteListingStore) InsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	repoLogger := s.logger(ctx, "InsertListings")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO properties (`+listingColumns+`)
		VALUES (:id, :title, :type, :sale_mode, :usage, :price, :area, :city, :locality, :lat, :lng, :images, :description)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare listings insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		row, err := listingRowFromDomain(l)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			repoLogger.Error("Failed to insert listing", err, port.Fields{"listing_id": l.ID})
			return 0, fmt.Errorf("failed to insert listing %d: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		repoLogger.Error("Failed to commit listings batch", err, nil)
		return 0, fmt.Errorf("failed to commit listings batch: %w", err)
	}
	return len(listings), nil
}

func (s *SQLiteListingStore) InsertEnquiry(ctx context.Context, e domain.Enquiry) (int64, error) {
	row := enquiryRow{
		Name:      e.Name,
		Mobile:    e.Mobile,
		Email:     e.Email,
		Message:   e.Message,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if e.PropertyID != nil {
		row.PropertyID = sql.NullInt64{Int64: *e.PropertyID, Valid: true}
	}

	res, err := s.db.NamedExecContext(ctx, `INSERT INTO enquiries (name, mobile, email, message, property_id, created_at)
		VALUES (:name, :mobile, :email, :message, :property_id, :created_at)`, row)
	if err != nil {
		s.logger(ctx, "InsertEnquiry").Error("Failed to insert enquiry", err, nil)
		return 0, fmt.Errorf("failed to insert enquiry: %w", err)
	}
	return res.LastInsertId()
}

// CountEnquiries используется seed-утилитой и тестами.
func (s *SQLiteListingStore) CountEnquiries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM enquiries"); err != nil {
		return 0, fmt.Errorf("failed to count enquiries: %w", err)
	}
	return count, nil
}

func (s *SQLiteListingStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (r listingRow) toDomain() (domain.Listing, error) {
	images := []string{}
	if r.Images != "" {
		if err := json.Unmarshal([]byte(r.Images), &images); err != nil {
			return domain.Listing{}, fmt.Errorf("listing %d: malformed images column: %w", r.ID, err)
		}
	}
	l := domain.Listing{
		ID:          r.ID,
		Title:       r.Title,
		Type:        r.Type,
		SaleMode:    r.SaleMode,
		Usage:       r.Usage,
		Price:       r.Price,
		Area:        r.Area,
		City:        r.City,
		Locality:    r.Locality,
		Lat:         math.NaN(),
		Lng:         math.NaN(),
		Images:      images,
		Description: r.Description,
	}
	if r.Lat.Valid {
		l.Lat = r.Lat.Float64
	}
	if r.Lng.Valid {
		l.Lng = r.Lng.Float64
	}
	return l, nil
}

func listingRowFromDomain(l domain.Listing) (listingRow, error) {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return listingRow{}, fmt.Errorf("listing %d: failed to encode images: %w", l.ID, err)
	}
	return listingRow{
		ID:          l.ID,
		Title:       l.Title,
		Type:        l.Type,
		SaleMode:    l.SaleMode,
		Usage:       l.Usage,
		Price:       l.Price,
		Area:        l.Area,
		City:        l.City,
		Locality:    l.Locality,
		Lat:         finite(l.Lat),
		Lng:         finite(l.Lng),
		Images:      string(raw),
		Description: l.Description,
	}, nil
}

func finite(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
