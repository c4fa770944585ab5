// Package store is the DB-access layer the engine uses to read jobs,
// documents, pipelines, and org settings, and to write job status
// transitions and stage-output rows.
package store

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// DB wraps a *sqlx.DB plus a goqu dialect bound to it for query building.
type DB struct {
	sqlx *sqlx.DB
	goqu *goqu.Database
}

// Open connects to Postgres at databaseURL.
func Open(databaseURL string) (*DB, error) {
	conn, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return &DB{sqlx: conn, goqu: goqu.New("postgres", conn.DB)}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.sqlx.Close()
}

// ErrNotFound is returned by a single-row read that matches no row.
var ErrNotFound = errors.New("not found")

func wrapNoRows(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrNotFound, "%s", what)
	}
	return errors.Wrapf(err, "reading %s", what)
}
