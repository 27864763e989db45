package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrations embed.FS

// NewMigrator opens a dedicated connection for schema migrations. Closing the
// returned Migrate also closes that connection.
func NewMigrator(cfg Config, logger *zerolog.Logger) (*migrate.Migrate, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	dialect := "postgres"
	if cfg.Driver == DriverSQLite {
		dialect = "sqlite3"
	}

	src, err := iofs.New(migrations, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}

	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening migration connection: %w", err)
	}

	var driver migratedb.Driver
	switch dialect {
	case "sqlite3":
		driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{})
	default:
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}
	m.Log = &migrateLogger{log: logger}

	return m, nil
}

// Migrate applies every pending up migration.
func Migrate(ctx context.Context, cfg Config, logger *zerolog.Logger) error {
	m, err := NewMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().Msgf("database schema up to date, version %d", from)
			return nil
		}
		return fmt.Errorf("migrating database: %w", err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("retrieving database migration version: %w", err)
	}
	logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	return nil
}

type migrateLogger struct {
	log *zerolog.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return l.log.GetLevel() <= zerolog.DebugLevel
}
