// Package database opens the relational store and provides the helpers the
// core packages use to run named queries and scoped transactions.
package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/irsalhamdi/eduverse/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrDBNotFound        = errors.New("not found")
	ErrDBDuplicatedEntry = errors.New("duplicated entry")
)

func init() {
	// modernc registers itself as "sqlite" which sqlx does not know about.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

func Open(cfg config.DB) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		sslMode := "require"
		if cfg.DisableTLS {
			sslMode = "disable"
		}

		q := make(url.Values)
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")

		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     cfg.Host,
			Path:     cfg.Name,
			RawQuery: q.Encode(),
		}

		db, err = sqlx.Open(DriverPostgres, u.String())

	case DriverSQLite:
		q := make(url.Values)
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "journal_mode(WAL)")

		db, err = sqlx.Open(DriverSQLite, cfg.Path+"?"+q.Encode())

	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := StatusCheck(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking database status: %w", err)
	}

	return db, nil
}

func StatusCheck(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// Transaction runs fn inside a single database transaction bound to ctx.
// Any error returned by fn, a panic or a cancelled ctx rolls everything
// back.
func Transaction(ctx context.Context, db *sqlx.DB, fn func(sqlx.ExtContext) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("rollback failed[%v]: %w", rerr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NamedExecContext executes a named statement and reports how many rows
// it touched.
func NamedExecContext(ctx context.Context, db sqlx.ExtContext, query string, data any) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, db, query, data)
	if err != nil {
		return 0, mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// NamedQueryStruct scans the first row of the result into dest and returns
// ErrDBNotFound when there is none.
func NamedQueryStruct(ctx context.Context, db sqlx.ExtContext, query string, data any, dest any) error {
	rows, err := sqlx.NamedQueryContext(ctx, db, query, data)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrDBNotFound
	}

	if err := rows.StructScan(dest); err != nil {
		return err
	}
	return nil
}

func NamedQuerySlice[T any](ctx context.Context, db sqlx.ExtContext, query string, data any, dest *[]T) error {
	rows, err := sqlx.NamedQueryContext(ctx, db, query, data)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	var list []T
	for rows.Next() {
		var v T
		if err := rows.StructScan(&v); err != nil {
			return err
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if list == nil {
		list = []T{}
	}
	*dest = list
	return nil
}

// Sum is the destination for aggregate queries aliased as "total".
type Sum struct {
	Total int `db:"total"`
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %v", ErrDBDuplicatedEntry, err)
	}

	var liteErr *msqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", ErrDBDuplicatedEntry, err)
		}
	}

	return err
}
