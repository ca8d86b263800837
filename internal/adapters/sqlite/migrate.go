package sqlite

import (
	"embed"
	"errors"
	"estatemap/internal/core/port"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migrate_sqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет встроенные миграции к открытой базе. migrate.Close не
// вызывается: он закрыл бы общий *sql.DB хранилища.
func (s *SQLiteListingStore) Migrate(logger port.LoggerPort) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := migrate_sqlite3.WithInstance(s.db.DB, &migrate_sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to init sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	m.Log = &migrateLogger{logger: logger.WithFields(port.Fields{"component": "migrate", "driver": "sqlite3"})}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

type migrateLogger struct {
	logger port.LoggerPort
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), nil)
}

func (l *migrateLogger) Verbose() bool { return false }
