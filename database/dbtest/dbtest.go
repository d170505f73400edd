// Package dbtest hands tests a migrated, throwaway database.
//
// Tests run on a sqlite file by default. Setting EDUVERSE_TEST_POSTGRES=1
// starts a postgres container with dockertest instead.
package dbtest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
)

func NewDatabase(t *testing.T) *sqlx.DB {
	t.Helper()

	var db *sqlx.DB
	if os.Getenv("EDUVERSE_TEST_POSTGRES") != "" {
		db = newPostgres(t)
	} else {
		db = newSQLite(t)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func newSQLite(t *testing.T) *sqlx.DB {
	cfg := config.DB{
		Driver:       database.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns: 2,
		MaxOpenConns: 4,
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("opening sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newPostgres(t *testing.T) *sqlx.DB {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct docker pool: %v", err)
	}
	pool.MaxWait = time.Minute

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=eduverse",
		},
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(res); err != nil {
			t.Logf("could not purge postgres container: %v", err)
		}
	})

	cfg := config.DB{
		Driver:       database.DriverPostgres,
		User:         "postgres",
		Password:     "postgres",
		Host:         res.GetHostPort("5432/tcp"),
		Name:         "eduverse",
		MaxIdleConns: 2,
		DisableTLS:   true,
	}

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		db, err = database.Open(cfg)
		if err != nil {
			return fmt.Errorf("waiting for postgres: %w", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
