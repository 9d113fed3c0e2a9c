package cpi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/cpi-engine/cpi"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func period(year int, month time.Month) cpi.Period {
	return cpi.Period{Year: year, Month: month}
}

func testBounds() cpi.Bounds {
	return cpi.Bounds{MinYear: 1988, MaxYear: 2025}
}

// =============================================================================
// PERIOD CONSTRUCTION
// =============================================================================

func TestNewPeriod_Valid(t *testing.T) {
	p, err := testBounds().NewPeriod(1995, 10)
	require.NoError(t, err)
	assert.Equal(t, period(1995, time.October), p)
	assert.Equal(t, "1995-10", p.String())
}

func TestNewPeriod_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
	}{
		{"month zero", 2000, 0},
		{"month thirteen", 2000, 13},
		{"year before data", 1987, 12},
		{"year after data", 2026, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testBounds().NewPeriod(tt.year, tt.month)
			require.Error(t, err)
			assert.ErrorIs(t, err, cpi.ErrInvalidPeriod)
			assert.True(t, cpi.IsClientError(err))

			var pe *cpi.PeriodError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.year, pe.Year)
		})
	}
}

func TestDefaultBounds_CoversCurrentYear(t *testing.T) {
	b := cpi.DefaultBounds()
	assert.Equal(t, cpi.EarliestYear, b.MinYear)
	assert.Equal(t, time.Now().Year(), b.MaxYear)
}

func TestBounds_Years_NewestFirst(t *testing.T) {
	years := cpi.Bounds{MinYear: 1988, MaxYear: 1991}.Years()
	assert.Equal(t, []int{1991, 1990, 1989, 1988}, years)
}

func TestParsePeriod(t *testing.T) {
	p, err := cpi.ParsePeriod("1993-4")
	require.NoError(t, err)
	assert.Equal(t, period(1993, time.April), p)

	_, err = cpi.ParsePeriod("1993-13")
	assert.ErrorIs(t, err, cpi.ErrInvalidPeriod)

	_, err = cpi.ParsePeriod("199304")
	assert.ErrorIs(t, err, cpi.ErrInvalidPeriod)
}

func TestPeriod_TextRoundTrip(t *testing.T) {
	var p cpi.Period
	require.NoError(t, p.UnmarshalText([]byte("2001-07")))
	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2001-07", string(text))
}

func TestPeriod_AddMonths_CrossesYears(t *testing.T) {
	assert.Equal(t, period(1996, time.February), period(1995, time.November).AddMonths(3))
	assert.Equal(t, period(1994, time.December), period(1995, time.January).AddMonths(-1))
}

// =============================================================================
// RANGE
// =============================================================================

func TestNewRange_OrderedByYearThenMonth(t *testing.T) {
	_, err := cpi.NewRange(period(1999, time.December), period(2000, time.January))
	assert.NoError(t, err)

	_, err = cpi.NewRange(period(2000, time.March), period(2000, time.March))
	assert.NoError(t, err)

	_, err = cpi.NewRange(period(2000, time.May), period(1999, time.January))
	assert.ErrorIs(t, err, cpi.ErrInvalidRange)

	_, err = cpi.NewRange(period(2000, time.May), period(2000, time.April))
	var re *cpi.RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, period(2000, time.April), re.End)
}

func TestMonthsBetween_LengthMatchesFormula(t *testing.T) {
	ranges := []cpi.Range{
		{Start: period(1995, time.January), End: period(1995, time.December)},
		{Start: period(1988, time.December), End: period(2024, time.March)},
		{Start: period(2010, time.June), End: period(2010, time.June)},
	}
	for _, r := range ranges {
		months := cpi.MonthsBetween(r)
		want := (r.End.Year*12 + int(r.End.Month)) - (r.Start.Year*12 + int(r.Start.Month)) + 1
		assert.Len(t, months, want, r.String())
		assert.Equal(t, want, r.Len())
		assert.Equal(t, r.Start, months[0])
		assert.Equal(t, r.End, months[len(months)-1])
		for i := 1; i < len(months); i++ {
			assert.Equal(t, months[i-1].AddMonths(1), months[i])
		}
	}
}

func TestMonthsBetween_Restartable(t *testing.T) {
	r := cpi.Range{Start: period(1999, time.November), End: period(2000, time.February)}
	assert.Equal(t, cpi.MonthsBetween(r), cpi.MonthsBetween(r))
	assert.Equal(t, []cpi.Period{
		period(1999, time.November),
		period(1999, time.December),
		period(2000, time.January),
		period(2000, time.February),
	}, r.Months())
}
