package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/questlog/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationSet selects which store a migration run applies to.
type MigrationSet string

// Migration sets, one per store.
const (
	LibraryMigrations MigrationSet = "library"
	RunMigrations     MigrationSet = "runs"
)

// migrationsTable keeps the version bookkeeping of each set apart when both
// stores share one MySQL or PostgreSQL database.
func (s MigrationSet) migrationsTable() string {
	return "questlog_" + string(s) + "_migrations"
}

func (s MigrationSet) defaultPath() string {
	if s == RunMigrations {
		return GetRunsDBFilePath()
	}
	return GetLibraryDBFilePath()
}

// Migrate runs database migrations for one store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(set MigrationSet, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if set != LibraryMigrations && set != RunMigrations {
		return fmt.Errorf("unknown migration set: %s", set)
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr, set.defaultPath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	driver, err := migrationDriver(db, backend, set.migrationsTable())
	if err != nil {
		return err
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(set)+"/"+string(backend))
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "questlog", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at the latest version.\n", set)
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated %s from version %d to version %d\n", set, currentVersion, newVersion)
		}
	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at version 0\n", set)
		} else {
			fmt.Printf("Successfully rolled back %s from version %d to version 0\n", set, currentVersion)
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at version %d\n", set, targetVersion)
		} else {
			fmt.Printf("Successfully migrated %s from version %d to version %d\n", set, currentVersion, targetVersion)
		}
	}

	return nil
}

// migrationDriver wraps an open connection in the matching migrate driver.
func migrationDriver(db *sql.DB, backend schema.DatabaseBackend, table string) (database.Driver, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: table})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: table})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}
	return driver, nil
}
