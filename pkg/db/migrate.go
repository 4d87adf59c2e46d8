package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"bookit/pkg/config"
)

// DefaultMigrationsPath is used when MIGRATIONS_PATH is unset.
const DefaultMigrationsPath = "file://migrations"

func newMigrator(migrationsPath string, cfg config.Config) (*migrate.Migrate, error) {
	if migrationsPath == "" {
		migrationsPath = DefaultMigrationsPath
	}
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("open migrations %s: %w", migrationsPath, err)
	}
	return m, nil
}

// Migrate applies every pending up migration.
func Migrate(migrationsPath string, cfg config.Config) error {
	m, err := newMigrator(migrationsPath, cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	return nil
}

// MigrationStatus reports the applied schema version. A fresh database
// reports version 0.
func MigrationStatus(migrationsPath string, cfg config.Config) (version uint, dirty bool, err error) {
	m, err := newMigrator(migrationsPath, cfg)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
