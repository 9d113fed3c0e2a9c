/*
era.go - Currency-era classification

PURPOSE:
  Maps a Period onto the currency regime in force at that time, and a
  Range onto one of five narrative categories used when labelling a
  converted amount. The classifier is driven by calendar boundaries only;
  it never looks at index values.

BOUNDARY TABLE:
  Each row is (era, from inclusive, until exclusive). Rows may overlap:

    annual_coefficient  1988-01 .. 1991-01   yearly figures, month locked
    transitional_a      1988-01 .. 1993-08
    transitional_b      1993-04 .. 1995-10
    current             1995-10 .. (open)

  1993-04 .. 1993-08 is the coexistence window where A and B both
  circulate. The annual rows overlap A by design of the data: the same
  currency, but published as yearly coefficients.

TRANSITIONS:
  The category of a range is a lookup over the product of the two endpoint
  currencies. A start inside the coexistence window with an end after it
  is reported as coexistence_to_later and resolved to the later coexisting
  currency, so the chain never crosses the A/B boundary twice.

SEE ALSO:
  - eraconfig.go: Loads a boundary table from YAML
  - inflation.go: Uses Transition for unit labels only
*/
package cpi

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// ERA
// =============================================================================

// Era is a currency or index regime attached to a Period.
type Era int

const (
	EraUnknown Era = iota
	EraAnnualCoefficient
	EraTransitionalA
	EraTransitionalB
	EraCurrent
)

var eraNames = map[Era]string{
	EraUnknown:           "unknown",
	EraAnnualCoefficient: "annual_coefficient",
	EraTransitionalA:     "transitional_a",
	EraTransitionalB:     "transitional_b",
	EraCurrent:           "current",
}

func (e Era) String() string {
	if name, ok := eraNames[e]; ok {
		return name
	}
	return fmt.Sprintf("era(%d)", int(e))
}

// Currency returns the circulating currency for the era. The annual
// coefficient regime is a publication mode of currency A.
func (e Era) Currency() Era {
	if e == EraAnnualCoefficient {
		return EraTransitionalA
	}
	return e
}

// MarshalText implements encoding.TextMarshaler.
func (e Era) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Era) UnmarshalText(text []byte) error {
	era, err := ParseEra(string(text))
	if err != nil {
		return err
	}
	*e = era
	return nil
}

// ParseEra parses the names produced by Era.String.
func ParseEra(s string) (Era, error) {
	for era, name := range eraNames {
		if era != EraUnknown && name == s {
			return era, nil
		}
	}
	return EraUnknown, fmt.Errorf("unknown era %q", s)
}

// =============================================================================
// TRANSITION - Narrative category for a (start, end) pair
// =============================================================================

type TransitionCategory string

const (
	CategorySameEra            TransitionCategory = "same_era"
	CategoryAToB               TransitionCategory = "a_to_b"
	CategoryAToCurrent         TransitionCategory = "a_to_current"
	CategoryBToCurrent         TransitionCategory = "b_to_current"
	CategoryCoexistenceToLater TransitionCategory = "coexistence_to_later"
)

type eraPair struct{ from, to Era }

// transitionTable is keyed by currency eras only (annual folds into A).
var transitionTable = map[eraPair]TransitionCategory{
	{EraTransitionalA, EraTransitionalA}: CategorySameEra,
	{EraTransitionalB, EraTransitionalB}: CategorySameEra,
	{EraCurrent, EraCurrent}:             CategorySameEra,
	{EraTransitionalA, EraTransitionalB}: CategoryAToB,
	{EraTransitionalA, EraCurrent}:       CategoryAToCurrent,
	{EraTransitionalB, EraCurrent}:       CategoryBToCurrent,
}

// Transition is the era classification of a range.
type Transition struct {
	From     Era
	To       Era
	Category TransitionCategory

	// Coexistence is set when the start falls in the A/B coexistence window.
	Coexistence bool
}

// Units returns the currency eras the amount is labelled in at each end.
func (t Transition) Units() (from, to Era) {
	return t.From.Currency(), t.To.Currency()
}

// CrossesBoundary reports whether the range changes currency.
func (t Transition) CrossesBoundary() bool {
	from, to := t.Units()
	return from != to
}

// =============================================================================
// ERA TABLE
// =============================================================================

// EraBoundary is one row of the boundary table. A zero Until means the
// era is still in force.
type EraBoundary struct {
	Era   Era
	From  Period
	Until Period
}

// Contains reports whether p falls in [From, Until).
func (b EraBoundary) Contains(p Period) bool {
	if p.Before(b.From) {
		return false
	}
	return b.Until.IsZero() || p.Before(b.Until)
}

// DefaultSentinelMonth is the month annual-coefficient periods collapse to.
const DefaultSentinelMonth = time.December

// EraTable is an immutable boundary table consulted by every classification.
type EraTable struct {
	boundaries []EraBoundary
	sentinel   time.Month
}

// DefaultEraTable returns the published boundaries.
func DefaultEraTable() *EraTable {
	t, err := NewEraTable([]EraBoundary{
		{Era: EraAnnualCoefficient, From: Period{1988, time.January}, Until: Period{1991, time.January}},
		{Era: EraTransitionalA, From: Period{1988, time.January}, Until: Period{1993, time.August}},
		{Era: EraTransitionalB, From: Period{1993, time.April}, Until: Period{1995, time.October}},
		{Era: EraCurrent, From: Period{1995, time.October}},
	}, DefaultSentinelMonth)
	if err != nil {
		panic(err)
	}
	return t
}

// NewEraTable validates and sorts the rows. Every currency row but the
// last must be closed, and the currency rows must cover the calendar
// from the first row onward without gaps.
func NewEraTable(rows []EraBoundary, sentinel time.Month) (*EraTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("era table: no boundaries")
	}
	if sentinel < time.January || sentinel > time.December {
		return nil, fmt.Errorf("era table: sentinel month %d out of range", sentinel)
	}

	sorted := make([]EraBoundary, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].From.Equal(sorted[j].From) {
			return sorted[i].From.Before(sorted[j].From)
		}
		return sorted[i].Era < sorted[j].Era
	})

	var currency []EraBoundary
	for _, b := range sorted {
		if b.Era == EraUnknown {
			return nil, fmt.Errorf("era table: row starting %s has no era", b.From)
		}
		if !b.Until.IsZero() && !b.From.Before(b.Until) {
			return nil, fmt.Errorf("era table: %s row is empty (%s..%s)", b.Era, b.From, b.Until)
		}
		if b.Era != EraAnnualCoefficient {
			currency = append(currency, b)
		}
	}
	if len(currency) == 0 {
		return nil, fmt.Errorf("era table: no currency eras")
	}
	for i, b := range currency {
		last := i == len(currency)-1
		if !last && b.Until.IsZero() {
			return nil, fmt.Errorf("era table: only the last currency era may be open-ended, %s is not last", b.Era)
		}
		if last && !b.Until.IsZero() {
			return nil, fmt.Errorf("era table: last currency era %s must be open-ended", b.Era)
		}
		if !last && currency[i+1].From.After(b.Until) {
			return nil, fmt.Errorf("era table: gap between %s and %s", b.Era, currency[i+1].Era)
		}
	}

	return &EraTable{boundaries: sorted, sentinel: sentinel}, nil
}

// Boundaries returns a copy of the rows in table order.
func (t *EraTable) Boundaries() []EraBoundary {
	out := make([]EraBoundary, len(t.boundaries))
	copy(out, t.boundaries)
	return out
}

// SentinelMonth is the month annual-coefficient periods collapse to.
func (t *EraTable) SentinelMonth() time.Month { return t.sentinel }

// Eras returns every era whose row contains p, in table order.
func (t *EraTable) Eras(p Period) []Era {
	var eras []Era
	for _, b := range t.boundaries {
		if b.Contains(p) {
			eras = append(eras, b.Era)
		}
	}
	return eras
}

// Classify returns the primary era of p. It is total: periods before the
// first row take the earliest era.
func (t *EraTable) Classify(p Period) Era {
	if eras := t.Eras(p); len(eras) > 0 {
		return eras[0]
	}
	return t.boundaries[0].Era
}

// ClassifyAs returns preferred when p belongs to it, else the primary era.
// Inside an overlap the caller picks which of the valid eras applies.
func (t *EraTable) ClassifyAs(p Period, preferred Era) Era {
	for _, e := range t.Eras(p) {
		if e == preferred {
			return e
		}
	}
	return t.Classify(p)
}

// currencies returns the distinct currency eras in force at p, oldest first.
func (t *EraTable) currencies(p Period) []Era {
	var out []Era
	seen := make(map[Era]bool)
	for _, e := range t.Eras(p) {
		c := e.Currency()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, t.Classify(p).Currency())
	}
	return out
}

// InCoexistence reports whether two currencies circulate at p.
func (t *EraTable) InCoexistence(p Period) bool {
	return len(t.currencies(p)) > 1
}

// IsAnnual reports whether p falls in the annual-coefficient regime, where
// months are not individually published.
func (t *EraTable) IsAnnual(p Period) bool {
	for _, e := range t.Eras(p) {
		if e == EraAnnualCoefficient {
			return true
		}
	}
	return false
}

// Normalize locks the month of an annual-coefficient period to the
// sentinel. Other periods are returned unchanged.
func (t *EraTable) Normalize(p Period) Period {
	if t.IsAnnual(p) {
		return Period{Year: p.Year, Month: t.sentinel}
	}
	return p
}

// AnnualYears lists the years whose month selection is locked.
func (t *EraTable) AnnualYears() []int {
	var years []int
	for _, b := range t.boundaries {
		if b.Era != EraAnnualCoefficient {
			continue
		}
		last := b.Until.AddMonths(-1).Year
		if b.Until.IsZero() {
			last = b.From.Year
		}
		for y := b.From.Year; y <= last; y++ {
			years = append(years, y)
		}
	}
	return years
}

// Transition classifies a range. The range is assumed valid.
func (t *EraTable) Transition(r Range) Transition {
	from := t.Classify(r.Start)
	to := t.Classify(r.End)
	endCurrency := to.Currency()

	// An end outside the window can only lie after it.
	if t.InCoexistence(r.Start) && !t.InCoexistence(r.End) {
		// Latest coexisting currency not after the end currency.
		resolved := from.Currency()
		for _, c := range t.currencies(r.Start) {
			if c <= endCurrency {
				resolved = c
			}
		}
		return Transition{
			From:        resolved,
			To:          to,
			Category:    CategoryCoexistenceToLater,
			Coexistence: true,
		}
	}

	category, ok := transitionTable[eraPair{from.Currency(), endCurrency}]
	if !ok {
		category = CategorySameEra
	}
	return Transition{
		From:        from,
		To:          to,
		Category:    category,
		Coexistence: t.InCoexistence(r.Start),
	}
}
