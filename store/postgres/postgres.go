/*
Package postgres provides a PostgreSQL-backed index provider.

PURPOSE:
  Same contract and table as store/sqlite, for deployments that keep the
  published series in a shared database. Queries use $n placeholders.

SEE ALSO:
  - store/sqlstore: Shared queries
  - store/sqlite: Local file implementation
*/
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/warp/cpi-engine/store/sqlstore"
)

// Schema is applied by New. index_value is NUMERIC so imports keep the
// published precision.
const Schema = `
CREATE TABLE IF NOT EXISTS cpiindexes (
	id BIGSERIAL PRIMARY KEY,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
	index_value NUMERIC NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_cpiindexes_period
	ON cpiindexes(year, month, id);
`

// Store is a sqlstore.Store bound to PostgreSQL.
type Store struct {
	*sqlstore.Store
}

// New connects to dsn, verifies the connection and migrates the schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return Wrap(db), nil
}

// Wrap binds an already open and migrated database.
func Wrap(db *sql.DB) *Store {
	return &Store{Store: sqlstore.New(db, squirrel.Dollar)}
}
