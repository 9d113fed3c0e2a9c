/*
Package sqlite provides a SQLite-backed index provider.

PURPOSE:
  Persists published CPI index values in a local database file so the
  server and CLI share one data set. Lookups, coverage and imports are
  implemented once in store/sqlstore; this package owns the driver, the
  connection settings and the schema.

INTERFACES IMPLEMENTED:
  cpi.IndexProvider:    Resolve(period)
  cpi.CoverageProvider: first and last period with data
  cpi.IndexWriter:      batch import

APPEND-ONLY:
  Corrections to a published value are new rows; the latest row for a
  period wins. Nothing is updated or deleted.

WAL MODE:
  File databases are opened with WAL so the HTTP server can read while an
  import writes.

IN-MEMORY:
  ":memory:" gives every pooled connection its own empty database, so the
  pool is limited to a single connection.

USAGE:
  store, err := sqlite.New("./data/cpi.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  calc := cpi.NewCalculator(store)

SEE ALSO:
  - store/sqlstore: Shared queries
  - cpi/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/cpi-engine/store/sqlstore"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a sqlstore.Store bound to SQLite.
type Store struct {
	*sqlstore.Store
}

// New opens (creating if needed) the database at dbPath and migrates it.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == MemoryPath {
		dsn = dbPath
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{Store: sqlstore.New(db, squirrel.Question)}, nil
}

// migrate creates the database schema.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cpiindexes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		index_value TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cpiindexes_period
		ON cpiindexes(year, month, id);
	`

	_, err := db.Exec(schema)
	return err
}
