package postgres

import (
	"embed"
	"errors"
	"estatemap/internal/core/port"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет встроенные миграции. databaseURL - обычный postgres://
// URL; пароль, если задан отдельно, подставляется в него.
func Migrate(databaseURL, password string, logger port.LoggerPort) error {
	migrateURL, err := migrationURL(databaseURL, password)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()
	m.Log = &migrateLogger{logger: logger.WithFields(port.Fields{"component": "migrate", "driver": "pgx5"})}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// migrationURL переводит postgres:// в схему драйвера migrate (pgx5://).
func migrationURL(databaseURL, password string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported database URL scheme %q", u.Scheme)
	}
	if password != "" {
		username := ""
		if u.User != nil {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, password)
	}
	return u.String(), nil
}

// migrateLogger адаптирует LoggerPort к migrate.Logger.
type migrateLogger struct {
	logger port.LoggerPort
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), nil)
}

func (l *migrateLogger) Verbose() bool { return false }
