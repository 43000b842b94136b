package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies all pending migrations for the store's dialect.
// Already-applied migrations are skipped. No connection of the store's pool
// stays checked out once Migrate returns.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	dialect := "sqlite"
	if s.driver == DriverPostgres {
		dialect = "postgres"
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	defer sourceDriver.Close()

	dbDriver, release, err := s.migrationDriver(ctx)
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}
	defer release()

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dialect, dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// migrationDriver returns the database driver for the migrator and a func
// releasing whatever it holds.
//
// The sqlite driver runs on the store's pool and holds nothing between
// statements; closing it would close the pool, so release is a no-op.
// The pgx driver pins one connection for its lifetime, so it gets a
// short-lived pool of its own that release closes together with the driver.
func (s *SQLStore) migrationDriver(ctx context.Context) (database.Driver, func(), error) {
	switch s.driver {
	case DriverSQLite:
		driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
		if err != nil {
			return nil, nil, err
		}
		return driver, func() {}, nil

	case DriverPostgres:
		migrationDB, err := sql.Open(s.driver, s.dsn)
		if err != nil {
			return nil, nil, err
		}
		migrationDB.SetMaxOpenConns(1)
		if err := migrationDB.PingContext(ctx); err != nil {
			_ = migrationDB.Close()
			return nil, nil, err
		}

		driver, err := migratepgx.WithInstance(migrationDB, &migratepgx.Config{})
		if err != nil {
			_ = migrationDB.Close()
			return nil, nil, err
		}
		return driver, func() {
			if err := driver.Close(); err != nil {
				s.log.Warn("Failed to close migration driver", "err", err)
			}
			_ = migrationDB.Close()
		}, nil
	}

	return nil, nil, fmt.Errorf("unsupported database driver: %s", s.driver)
}
