/*
provider.go - Interface between the calculator and published index data

PURPOSE:
  The core never fetches or caches index values itself. It resolves them
  through an IndexProvider, which may be backed by SQLite, PostgreSQL or
  memory.

CONTRACT:
  Resolve returns the raw published index for exactly one (year, month).
  When nothing is published it returns an error wrapping
  ErrIndexUnavailable (usually *UnavailableError). If a store keeps several
  revisions of the same key it returns only the current one.

  Each Resolve call is an independent suspension point. Implementations
  must be safe for concurrent use: the series generator issues lookups
  in parallel.

IMPLEMENTATIONS:
  - cpi/store/memory.go: In-memory, for tests and demos
  - store/sqlite: Embedded database
  - store/postgres: Server database

SEE ALSO:
  - calculator.go: The only consumer
*/
package cpi

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

// IndexProvider resolves a Period to its raw published index value.
type IndexProvider interface {
	Resolve(ctx context.Context, p Period) (decimal.Decimal, error)
}

// CoverageProvider is implemented by providers that can report the first
// and last published periods.
type CoverageProvider interface {
	Coverage(ctx context.Context) (Range, error)
}

// IndexProviderFunc adapts a function to IndexProvider.
type IndexProviderFunc func(ctx context.Context, p Period) (decimal.Decimal, error)

func (f IndexProviderFunc) Resolve(ctx context.Context, p Period) (decimal.Decimal, error) {
	return f(ctx, p)
}

// IndexRecord is one published value as stored by a provider.
type IndexRecord struct {
	Period Period
	Index  decimal.Decimal
}

// IndexWriter is implemented by stores that accept new revisions. Writes
// are append-only: a later revision for the same period supersedes the
// earlier one on Resolve.
type IndexWriter interface {
	PutBatch(ctx context.Context, records []IndexRecord) error
}
