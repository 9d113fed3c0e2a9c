package cpi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// PERIOD - One published index reading (year, month)
// =============================================================================

// Period identifies a single monthly index reading. Periods are values:
// every method returns a new Period rather than mutating the receiver.
type Period struct {
	Year  int
	Month time.Month
}

// ordinal counts months since year 0 so periods compare as integers.
func (p Period) ordinal() int { return p.Year*12 + int(p.Month) - 1 }

func periodFromOrdinal(n int) Period {
	return Period{Year: n / 12, Month: time.Month(n%12 + 1)}
}

// Comparison
func (p Period) Before(other Period) bool        { return p.ordinal() < other.ordinal() }
func (p Period) After(other Period) bool         { return p.ordinal() > other.ordinal() }
func (p Period) Equal(other Period) bool         { return p.ordinal() == other.ordinal() }
func (p Period) BeforeOrEqual(other Period) bool { return !p.After(other) }
func (p Period) AfterOrEqual(other Period) bool  { return !p.Before(other) }
func (p Period) IsZero() bool                    { return p.Year == 0 && p.Month == 0 }

// AddMonths returns the period n calendar months away (n may be negative).
func (p Period) AddMonths(n int) Period { return periodFromOrdinal(p.ordinal() + n) }

// MonthsUntil returns the number of calendar months from p to other.
func (p Period) MonthsUntil(other Period) int { return other.ordinal() - p.ordinal() }

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It checks the month
// but not the year; year bounds depend on the data source.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePeriod parses "YYYY-MM" (or "YYYY-M"). Only the month is validated.
func ParsePeriod(s string) (Period, error) {
	yearPart, monthPart, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Period{}, &PeriodError{Reason: fmt.Sprintf("expected YYYY-MM, got %q", s)}
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Period{}, &PeriodError{Reason: fmt.Sprintf("bad year %q", yearPart)}
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil {
		return Period{}, &PeriodError{Year: year, Reason: fmt.Sprintf("bad month %q", monthPart)}
	}
	if month < 1 || month > 12 {
		return Period{}, &PeriodError{Year: year, Month: month, Reason: "month must be 1-12"}
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// =============================================================================
// BOUNDS - The years the data source can answer for
// =============================================================================

// EarliestYear is the first year with published index data.
const EarliestYear = 1988

// Bounds limits the years a Period may take.
type Bounds struct {
	MinYear int
	MaxYear int
}

// DefaultBounds covers EarliestYear through the current calendar year.
func DefaultBounds() Bounds {
	return Bounds{MinYear: EarliestYear, MaxYear: time.Now().Year()}
}

// NewPeriod builds a Period within the bounds.
func (b Bounds) NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, &PeriodError{Year: year, Month: month, Reason: "month must be 1-12"}
	}
	if year < b.MinYear || year > b.MaxYear {
		return Period{}, &PeriodError{
			Year:   year,
			Month:  month,
			Reason: fmt.Sprintf("year must be within %d-%d", b.MinYear, b.MaxYear),
		}
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Contains reports whether p lies within the bounds.
func (b Bounds) Contains(p Period) bool {
	return p.Month >= time.January && p.Month <= time.December &&
		p.Year >= b.MinYear && p.Year <= b.MaxYear
}

// Check returns a PeriodError if p lies outside the bounds.
func (b Bounds) Check(p Period) error {
	_, err := b.NewPeriod(p.Year, int(p.Month))
	return err
}

// Years lists selectable years, newest first.
func (b Bounds) Years() []int {
	years := make([]int, 0, b.MaxYear-b.MinYear+1)
	for y := b.MaxYear; y >= b.MinYear; y-- {
		years = append(years, y)
	}
	return years
}

// NewPeriod builds a Period within DefaultBounds.
func NewPeriod(year, month int) (Period, error) {
	return DefaultBounds().NewPeriod(year, month)
}

// =============================================================================
// RANGE - Ordered (start, end) pair
// =============================================================================

// Range is an inclusive span of periods with Start <= End.
type Range struct {
	Start Period
	End   Period
}

// NewRange validates ordering. It is cheap and must run on every endpoint
// change, before any index lookup.
func NewRange(start, end Period) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate returns a RangeError if End precedes Start.
func (r Range) Validate() error {
	if r.Start.After(r.End) {
		return &RangeError{Start: r.Start, End: r.End}
	}
	return nil
}

// Contains returns true if p is within [Start, End].
func (r Range) Contains(p Period) bool {
	return p.AfterOrEqual(r.Start) && p.BeforeOrEqual(r.End)
}

// Len is the number of months in the range, both endpoints included.
func (r Range) Len() int {
	return r.Start.MonthsUntil(r.End) + 1
}

// Months returns every period in the range in calendar order.
func (r Range) Months() []Period {
	n := r.Len()
	if n <= 0 {
		return nil
	}
	months := make([]Period, n)
	for i := range months {
		months[i] = r.Start.AddMonths(i)
	}
	return months
}

// String returns a string representation of the range.
func (r Range) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// MonthsBetween expands a range into its ordered months.
func MonthsBetween(r Range) []Period {
	return r.Months()
}
