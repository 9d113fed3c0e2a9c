// Package seed loads published index values from YAML files and imports
// them into any cpi.IndexWriter.
//
// File format:
//
//	indexes:
//	  - year: 1995
//	    month: 10
//	    index: "74.50"
//
// Index values are quoted so YAML never rounds them through float64.
package seed

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/cpi-engine/cpi"
)

// DefaultBatchSize is how many records Import writes per transaction.
const DefaultBatchSize = 500

type fileDTO struct {
	Indexes []rowDTO `yaml:"indexes"`
}

type rowDTO struct {
	Year  int    `yaml:"year"`
	Month int    `yaml:"month"`
	Index string `yaml:"index"`
}

// Parse decodes and validates a seed document. Records come back in
// calendar order; file order is irrelevant.
func Parse(data []byte) ([]cpi.IndexRecord, error) {
	var doc fileDTO
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]cpi.IndexRecord, 0, len(doc.Indexes))
	for i, row := range doc.Indexes {
		p, err := cpi.NewPeriod(row.Year, row.Month)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		v, err := decimal.NewFromString(row.Index)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): invalid index %q: %w", i+1, p, row.Index, err)
		}
		if !v.IsPositive() {
			return nil, fmt.Errorf("row %d (%s): index must be positive, got %s", i+1, p, v)
		}
		out = append(out, cpi.IndexRecord{Period: p, Index: v})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, nil
}

// Load reads and parses a seed file.
func Load(path string) ([]cpi.IndexRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Import writes records in batches of batchSize (DefaultBatchSize when
// zero or negative) and returns how many were written.
func Import(ctx context.Context, w cpi.IndexWriter, records []cpi.IndexRecord, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	written := 0
	for start := 0; start < len(records); start += batchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		end := min(start+batchSize, len(records))
		if err := w.PutBatch(ctx, records[start:end]); err != nil {
			return written, fmt.Errorf("import records %d-%d: %w", start+1, end, err)
		}
		written = end
	}
	return written, nil
}

// Marshal renders records in the seed format.
func Marshal(records []cpi.IndexRecord) ([]byte, error) {
	doc := fileDTO{Indexes: make([]rowDTO, len(records))}
	for i, r := range records {
		doc.Indexes[i] = rowDTO{Year: r.Period.Year, Month: int(r.Period.Month), Index: r.Index.String()}
	}
	return yaml.Marshal(doc)
}
