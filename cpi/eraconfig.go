package cpi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// eraTableDTO is the YAML shape of a boundary table:
//
//	sentinel_month: 12
//	eras:
//	  - era: transitional_a
//	    from: 1988-01
//	    until: 1993-08
type eraTableDTO struct {
	SentinelMonth int         `yaml:"sentinel_month"`
	Eras          []eraRowDTO `yaml:"eras"`
}

type eraRowDTO struct {
	Era   string `yaml:"era"`
	From  string `yaml:"from"`
	Until string `yaml:"until,omitempty"`
}

// ParseEraTable decodes a YAML boundary table.
func ParseEraTable(data []byte) (*EraTable, error) {
	var dto eraTableDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("parse era table: %w", err)
	}

	sentinel := DefaultSentinelMonth
	if dto.SentinelMonth != 0 {
		sentinel = time.Month(dto.SentinelMonth)
	}

	rows := make([]EraBoundary, 0, len(dto.Eras))
	for i, r := range dto.Eras {
		era, err := ParseEra(r.Era)
		if err != nil {
			return nil, fmt.Errorf("era table row %d: %w", i, err)
		}
		from, err := ParsePeriod(r.From)
		if err != nil {
			return nil, fmt.Errorf("era table row %d from: %w", i, err)
		}
		row := EraBoundary{Era: era, From: from}
		if r.Until != "" {
			if row.Until, err = ParsePeriod(r.Until); err != nil {
				return nil, fmt.Errorf("era table row %d until: %w", i, err)
			}
		}
		rows = append(rows, row)
	}
	return NewEraTable(rows, sentinel)
}

// LoadEraTable reads a YAML boundary table from disk.
func LoadEraTable(path string) (*EraTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read era table: %w", err)
	}
	return ParseEraTable(data)
}

// MarshalYAML writes the table back in the same shape ParseEraTable reads.
func (t *EraTable) MarshalYAML() (any, error) {
	dto := eraTableDTO{SentinelMonth: int(t.sentinel)}
	for _, b := range t.boundaries {
		row := eraRowDTO{Era: b.Era.String(), From: b.From.String()}
		if !b.Until.IsZero() {
			row.Until = b.Until.String()
		}
		dto.Eras = append(dto.Eras, row)
	}
	return dto, nil
}
