package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus is the schema version recorded in the database
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

func (s MigrationStatus) String() string {
	switch {
	case !s.Applied:
		return "no migrations applied"
	case s.Dirty:
		return fmt.Sprintf("version %d (dirty)", s.Version)
	default:
		return fmt.Sprintf("version %d", s.Version)
	}
}

// Migrator applies the embedded raffle schema migrations
type Migrator struct {
	databaseURL string
}

// NewMigrator creates a migrator for databaseURL
func NewMigrator(databaseURL string) *Migrator {
	return &Migrator{databaseURL: databaseURL}
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.with(func(mg *migrate.Migrate) error {
		err := mg.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("No new migrations to apply")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		version, _, _ := mg.Version()
		log.WithField("version", version).Info("Successfully migrated database")
		return nil
	})
}

// Down rolls back steps migrations
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps value: %d", steps)
	}

	return m.with(func(mg *migrate.Migrate) error {
		err := mg.Steps(-steps)
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migrations to rollback")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}

		version, _, _ := mg.Version()
		log.WithFields(log.Fields{
			"steps":   steps,
			"version": version,
		}).Info("Rolled back migrations")
		return nil
	})
}

// Status reports the current schema version
func (m *Migrator) Status() (status MigrationStatus, err error) {
	err = m.with(func(mg *migrate.Migrate) error {
		version, dirty, err := mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		status = MigrationStatus{Version: version, Dirty: dirty, Applied: true}
		return nil
	})
	return status, err
}

func (m *Migrator) with(fn func(mg *migrate.Migrate) error) error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()
	return fn(mg)
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	poolConfig, err := pgxpool.ParseConfig(m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*poolConfig.ConnConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}
