// Package migration applies the SQL schema in migrations/ with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/dokan/papershop/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source selects where migration files are read from. An empty Dir uses the
// files compiled into the binary.
type Source struct {
	Dir string
}

func (s Source) open() (string, fs.FS) {
	if s.Dir != "" {
		return "file://" + s.Dir, nil
	}
	return "iofs", migrations.FS
}

// Migrator runs schema migrations against PostgreSQL
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator bound to an open database handle
func New(db *sql.DB, src Source, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	url, files := src.open()
	var m *migrate.Migrate
	if files != nil {
		d, err := iofs.New(files, ".")
		if err != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance(url, d, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(url, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("create migrate instance: %w", err)
		}
	}
	return newMigrator(m, logger), nil
}

// NewFromURL creates a Migrator that opens its own connection
func NewFromURL(databaseURL string, src Source, logger *zap.Logger) (*Migrator, error) {
	url, files := src.open()
	var (
		m   *migrate.Migrate
		err error
	)
	if files != nil {
		d, derr := iofs.New(files, ".")
		if derr != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", derr)
		}
		m, err = migrate.NewWithSourceInstance(url, d, databaseURL)
	} else {
		m, err = migrate.New(url, databaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return newMigrator(m, logger), nil
}

func newMigrator(m *migrate.Migrate, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{migrate: m, logger: logger}
}

// applied reports whether err means migrations ran. ErrNoChange is not a failure.
func applied(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	return err == nil, err
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	ran, err := applied(m.migrate.Up())
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if !ran {
		m.logger.Info("Schema is up to date")
		return nil
	}
	m.logVersion("Migrations applied")
	return nil
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	ran, err := applied(m.migrate.Down())
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	if ran {
		m.logger.Info("All migrations rolled back")
	}
	return nil
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	ran, err := applied(m.migrate.Steps(n))
	if err != nil {
		return fmt.Errorf("migrate %d steps: %w", n, err)
	}
	if ran {
		m.logVersion("Migration steps applied")
	}
	return nil
}

// GoTo migrates up or down to version
func (m *Migrator) GoTo(version uint) error {
	ran, err := applied(m.migrate.Migrate(version))
	if err != nil {
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	if ran {
		m.logVersion("Migrated to target version")
	}
	return nil
}

// Version returns the current version; 0 means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running it. It clears a dirty flag
// left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every table in the database
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping all tables")
	if err := m.migrate.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logVersion(msg string) {
	version, dirty, err := m.Version()
	if err != nil {
		m.logger.Warn(msg, zap.Error(err))
		return
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}
