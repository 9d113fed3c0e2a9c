// Package store provides IndexProvider implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/cpi-engine/cpi"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps every revision per period; Resolve answers with the latest.
type Memory struct {
	mu        sync.RWMutex
	revisions map[cpi.Period][]decimal.Decimal
}

var (
	_ cpi.IndexProvider    = (*Memory)(nil)
	_ cpi.CoverageProvider = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{revisions: make(map[cpi.Period][]decimal.Decimal)}
}

// NewMemoryFrom builds a store with one revision per period.
func NewMemoryFrom(values map[cpi.Period]decimal.Decimal) *Memory {
	m := NewMemory()
	for p, v := range values {
		m.revisions[p] = []decimal.Decimal{v}
	}
	return m
}

// Put appends a revision for the period. Append-only.
func (m *Memory) Put(_ context.Context, p cpi.Period, index decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revisions[p] = append(m.revisions[p], index)
	return nil
}

// PutBatch appends revisions for several periods at once.
func (m *Memory) PutBatch(_ context.Context, values []cpi.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range values {
		m.revisions[r.Period] = append(m.revisions[r.Period], r.Index)
	}
	return nil
}

// Resolve returns the current revision for the period.
func (m *Memory) Resolve(_ context.Context, p cpi.Period) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revs := m.revisions[p]
	if len(revs) == 0 {
		return decimal.Zero, &cpi.UnavailableError{Period: p}
	}
	return revs[len(revs)-1], nil
}

// Coverage returns the first and last periods with data.
func (m *Memory) Coverage(_ context.Context) (cpi.Range, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.revisions) == 0 {
		return cpi.Range{}, cpi.ErrIndexUnavailable
	}
	var r cpi.Range
	first := true
	for p := range m.revisions {
		if first || p.Before(r.Start) {
			r.Start = p
		}
		if first || p.After(r.End) {
			r.End = p
		}
		first = false
	}
	return r, nil
}

// List returns the current value of every period in [from, to], ordered.
func (m *Memory) List(_ context.Context, r cpi.Range) ([]cpi.IndexRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []cpi.IndexRecord
	for p, revs := range m.revisions {
		if r.Contains(p) && len(revs) > 0 {
			out = append(out, cpi.IndexRecord{Period: p, Index: revs[len(revs)-1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}
