package postgres

import (
	"context"
	"errors"
	"estatemap/internal/adapters/sqlquery"
	"estatemap/internal/contextkeys"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = "id, title, type, sale_mode, usage, price, area, city, locality, lat, lng, images, description"

// PostgresListingStore - реализация port.ListingStore для PostgreSQL.
type PostgresListingStore struct {
	pool *pgxpool.Pool
}

func NewPostgresListingStore(pool *pgxpool.Pool) (*PostgresListingStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresListingStore{pool: pool}, nil
}

func (s *PostgresListingStore) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingStore",
		"method":    method,
	})
}

// ListListings применяет критерии на стороне базы.
func (s *PostgresListingStore) ListListings(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error) {
	repoLogger := s.logger(ctx, "ListListings")

	whereClause, args := sqlquery.Compile(sqlquery.Postgres, criteria)
	query := fmt.Sprintf("SELECT %s FROM properties %s ORDER BY id", listingColumns, whereClause)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			repoLogger.Error("Failed to scan listing row", err, nil)
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during listings iteration", err, nil)
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	repoLogger.Debug("Listings fetched", port.Fields{"count": len(listings)})
	return listings, nil
}

func (s *PostgresListingStore) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = $1", listingColumns)

	l, err := scanListing(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		s.logger(ctx, "GetListing").Error("Failed to get listing", err, port.Fields{"listing_id": id})
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return &l, nil
}

func (s *PostgresListingStore) CountListings(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM properties").Scan(&count); err != nil {
		s.logger(ctx, "CountListings").Error("Failed to count listings", err, nil)
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// InsertListings пишет пакет через COPY в одной транзакции и сдвигает
// последовательность id за максимальный вставленный.
func (s *PostgresListingStore) InsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	repoLogger := s.logger(ctx, "InsertListings")

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]interface{}, 0, len(listings))
	for _, l := range listings {
		images := l.Images
		if images == nil {
			images = []string{}
		}
		rows = append(rows, []interface{}{
			l.ID, l.Title, l.Type, l.SaleMode, l.Usage, l.Price, l.Area,
			l.City, l.Locality, nullableCoord(l.Lat), nullableCoord(l.Lng), images, l.Description,
		})
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"properties"},
		[]string{"id", "title", "type", "sale_mode", "usage", "price", "area", "city", "locality", "lat", "lng", "images", "description"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		repoLogger.Error("Failed to copy listings batch", err, port.Fields{"batch_size": len(listings)})
		return 0, fmt.Errorf("failed to insert listings batch: %w", err)
	}

	_, err = tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('properties', 'id'), (SELECT MAX(id) FROM properties))`)
	if err != nil {
		repoLogger.Error("Failed to advance properties id sequence", err, nil)
		return 0, fmt.Errorf("failed to advance id sequence: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit listings batch", err, nil)
		return 0, fmt.Errorf("failed to commit listings batch: %w", err)
	}

	repoLogger.Debug("Listings batch inserted", port.Fields{"rows": copied})
	return int(copied), nil
}

func (s *PostgresListingStore) InsertEnquiry(ctx context.Context, e domain.Enquiry) (int64, error) {
	query := `INSERT INTO enquiries (name, mobile, email, message, property_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, query, e.Name, e.Mobile, e.Email, e.Message, e.PropertyID, e.CreatedAt).Scan(&id)
	if err != nil {
		s.logger(ctx, "InsertEnquiry").Error("Failed to insert enquiry", err, nil)
		return 0, fmt.Errorf("failed to insert enquiry: %w", err)
	}
	return id, nil
}

func (s *PostgresListingStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var (
		l        domain.Listing
		lat, lng *float64
	)
	err := row.Scan(&l.ID, &l.Title, &l.Type, &l.SaleMode, &l.Usage, &l.Price, &l.Area,
		&l.City, &l.Locality, &lat, &lng, &l.Images, &l.Description)
	if err != nil {
		return domain.Listing{}, err
	}
	l.Lat, l.Lng = coordOrNaN(lat), coordOrNaN(lng)
	if l.Images == nil {
		l.Images = []string{}
	}
	return l, nil
}

// Отсутствующая координата хранится как NULL, в домене - как NaN
// (объект не попадает на карту).
func coordOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func nullableCoord(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
