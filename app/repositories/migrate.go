package repositories

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

// ErrNoSchema is returned by Migrator for backends without a SQL schema.
var ErrNoSchema = errors.New("backend has no schema to migrate")

// Migrator applies the embedded SQL migrations for the dialect named by a
// database URL.
type Migrator struct {
	databaseURL string
	dir         string
	log         logrus.FieldLogger
}

// NewMigrator returns a Migrator for databaseURL. Badger URLs yield ErrNoSchema.
func NewMigrator(databaseURL string, log logrus.FieldLogger) (*Migrator, error) {
	scheme, target, err := splitURL(databaseURL)
	if err != nil {
		return nil, err
	}
	m := &Migrator{databaseURL: databaseURL, log: log}
	switch scheme {
	case "postgres", "postgresql":
		m.dir = "migrations/postgres"
	case "sqlite":
		if err := ensureParentDir(target); err != nil {
			return nil, err
		}
		m.dir = "migrations/sqlite"
	case "badger":
		return nil, ErrNoSchema
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
	return m, nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, m.dir)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("init migrations: %w", err)
	}
	mg.Log = &migrateLogger{log: m.log}
	return mg, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back steps migrations.
func (m *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migrate down: steps must be positive, got %d", steps)
	}
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()
	if err := mg.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version reports the applied schema version. A fresh database reports 0.
func (m *Migrator) Version() (uint, bool, error) {
	mg, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer mg.Close()
	v, dirty, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migrate version: %w", err)
	}
	return v, dirty, nil
}

type migrateLogger struct {
	log logrus.FieldLogger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	if l.log == nil {
		return
	}
	l.log.Infof(format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
