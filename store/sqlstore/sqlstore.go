/*
Package sqlstore implements the index provider over any database/sql driver.

PURPOSE:
  SQLite and PostgreSQL keep the same cpiindexes table and answer the same
  queries; only the placeholder format and DDL differ. This package holds
  the squirrel query builders and the scanning logic once, and the driver
  packages wrap it.

TABLE:
  cpiindexes (
    id           auto-increment primary key (revision order)
    year, month  the period
    index_value  published index, stored as decimal text / NUMERIC
    created_at   insert time
  )

REVISIONS:
  Rows are append-only. Several rows may exist for one (year, month); the
  one with the highest id is current.

SEE ALSO:
  - store/sqlite: SQLite driver and schema
  - store/postgres: PostgreSQL driver and schema
  - cpi/provider.go: IndexProvider contract
*/
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/warp/cpi-engine/cpi"
)

// Table is the name of the index table.
const Table = "cpiindexes"

// =============================================================================
// QUERY BUILDER
// =============================================================================

// Builder produces SQL for the index table in one placeholder dialect.
type Builder struct {
	sb squirrel.StatementBuilderType
}

func NewBuilder(ph squirrel.PlaceholderFormat) Builder {
	return Builder{sb: squirrel.StatementBuilder.PlaceholderFormat(ph)}
}

// Resolve selects the current revision for one period.
func (b Builder) Resolve(p cpi.Period) (string, []any, error) {
	return b.sb.
		Select("index_value").
		From(Table).
		Where(squirrel.Eq{"year": p.Year, "month": int(p.Month)}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
}

// Insert appends one row per record.
func (b Builder) Insert(records []cpi.IndexRecord, createdAt time.Time) (string, []any, error) {
	q := b.sb.Insert(Table).Columns("year", "month", "index_value", "created_at")
	for _, r := range records {
		q = q.Values(r.Period.Year, int(r.Period.Month), r.Index.String(), createdAt.UTC().Format(time.RFC3339))
	}
	return q.ToSql()
}

// Coverage selects the first and last month ordinals present.
func (b Builder) Coverage() (string, []any, error) {
	return b.sb.
		Select("MIN(year * 12 + month - 1)", "MAX(year * 12 + month - 1)").
		From(Table).
		ToSql()
}

// List selects every revision within the range, oldest revision first.
func (b Builder) List(r cpi.Range) (string, []any, error) {
	lo := r.Start.Year*12 + int(r.Start.Month) - 1
	hi := r.End.Year*12 + int(r.End.Month) - 1
	return b.sb.
		Select("year", "month", "index_value").
		From(Table).
		Where(squirrel.Expr("year * 12 + month - 1 BETWEEN ? AND ?", lo, hi)).
		OrderBy("year", "month", "id").
		ToSql()
}

// =============================================================================
// STORE
// =============================================================================

// Store implements cpi.IndexProvider, cpi.CoverageProvider and
// cpi.IndexWriter on a *sql.DB.
type Store struct {
	db *sql.DB
	q  Builder
}

var (
	_ cpi.IndexProvider    = (*Store)(nil)
	_ cpi.CoverageProvider = (*Store)(nil)
	_ cpi.IndexWriter      = (*Store)(nil)
)

// New wraps an open database. The schema must already exist.
func New(db *sql.DB, ph squirrel.PlaceholderFormat) *Store {
	return &Store{db: db, q: NewBuilder(ph)}
}

// DB exposes the underlying handle for driver packages.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Resolve returns the current revision of the index for p.
func (s *Store) Resolve(ctx context.Context, p cpi.Period) (decimal.Decimal, error) {
	query, args, err := s.q.Resolve(p)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build resolve query: %w", err)
	}

	var v decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, &cpi.UnavailableError{Period: p}
		}
		return decimal.Zero, fmt.Errorf("resolve %s: %w", p, err)
	}
	return v, nil
}

// Coverage returns the first and last periods with data.
func (s *Store) Coverage(ctx context.Context) (cpi.Range, error) {
	query, args, err := s.q.Coverage()
	if err != nil {
		return cpi.Range{}, fmt.Errorf("build coverage query: %w", err)
	}

	var lo, hi sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&lo, &hi); err != nil {
		return cpi.Range{}, fmt.Errorf("coverage: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return cpi.Range{}, cpi.ErrIndexUnavailable
	}
	return cpi.Range{Start: fromOrdinal(lo.Int64), End: fromOrdinal(hi.Int64)}, nil
}

// List returns the current value of each period in r, in calendar order.
func (s *Store) List(ctx context.Context, r cpi.Range) ([]cpi.IndexRecord, error) {
	query, args, err := s.q.List(r)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r, err)
	}
	defer rows.Close()

	var out []cpi.IndexRecord
	for rows.Next() {
		var year, month int
		var v decimal.Decimal
		if err := rows.Scan(&year, &month, &v); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		rec := cpi.IndexRecord{Period: cpi.Period{Year: year, Month: time.Month(month)}, Index: v}
		// Rows arrive oldest revision first; a repeat period replaces the previous one.
		if n := len(out); n > 0 && out[n-1].Period.Equal(rec.Period) {
			out[n-1] = rec
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate index rows: %w", err)
	}
	return out, nil
}

// PutBatch appends all records in one transaction.
func (s *Store) PutBatch(ctx context.Context, records []cpi.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}
	query, args, err := s.q.Insert(records, time.Now())
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %d index rows: %w", len(records), err)
	}
	return tx.Commit()
}

func fromOrdinal(n int64) cpi.Period {
	return cpi.Period{Year: int(n / 12), Month: time.Month(n%12 + 1)}
}
