package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate brings the schema up to date using the migration set that
// matches the driver db was opened with.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations/"+db.DriverName())
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	var drv migratedb.Driver
	switch db.DriverName() {
	case DriverPostgres:
		drv, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	case DriverSQLite:
		drv, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported driver %q", db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("preparing migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), drv)
	if err != nil {
		return fmt.Errorf("building migrator: %w", err)
	}

	// m.Close is not called: it would close db, which the caller owns.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
