package cpi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/warp/cpi-engine/cpi"
)

// =============================================================================
// CLASSIFY
// =============================================================================

func TestClassify_Boundaries(t *testing.T) {
	eras := cpi.DefaultEraTable()

	tests := []struct {
		p    cpi.Period
		want cpi.Era
	}{
		{period(1988, time.January), cpi.EraAnnualCoefficient},
		{period(1990, time.December), cpi.EraAnnualCoefficient},
		{period(1991, time.January), cpi.EraTransitionalA},
		{period(1993, time.March), cpi.EraTransitionalA},
		{period(1993, time.April), cpi.EraTransitionalA}, // coexistence, primary A
		{period(1993, time.July), cpi.EraTransitionalA},
		{period(1993, time.August), cpi.EraTransitionalB},
		{period(1995, time.September), cpi.EraTransitionalB},
		{period(1995, time.October), cpi.EraCurrent},
		{period(2024, time.June), cpi.EraCurrent},
	}
	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, eras.Classify(tt.p))
		})
	}
}

func TestClassify_TotalOverDataRange(t *testing.T) {
	eras := cpi.DefaultEraTable()
	r := cpi.Range{Start: period(1988, time.January), End: period(2030, time.December)}
	for _, p := range r.Months() {
		e := eras.Classify(p)
		require.NotEqual(t, cpi.EraUnknown, e, p.String())
		assert.Contains(t, eras.Eras(p), e, p.String())
	}
}

func TestClassify_CoexistenceWindowAllowsEither(t *testing.T) {
	eras := cpi.DefaultEraTable()

	for m := time.April; m <= time.July; m++ {
		p := period(1993, m)
		assert.True(t, eras.InCoexistence(p), p.String())
		assert.Equal(t, []cpi.Era{cpi.EraTransitionalA, cpi.EraTransitionalB}, eras.Eras(p))
		assert.Equal(t, cpi.EraTransitionalB, eras.ClassifyAs(p, cpi.EraTransitionalB))
		assert.Equal(t, cpi.EraTransitionalA, eras.ClassifyAs(p, cpi.EraTransitionalA))
	}

	assert.False(t, eras.InCoexistence(period(1993, time.March)))
	assert.False(t, eras.InCoexistence(period(1993, time.August)))
	// Annual overlap is the same currency, not coexistence.
	assert.False(t, eras.InCoexistence(period(1989, time.June)))
}

func TestClassifyAs_IgnoresEraNotInForce(t *testing.T) {
	eras := cpi.DefaultEraTable()
	assert.Equal(t, cpi.EraCurrent, eras.ClassifyAs(period(2000, time.January), cpi.EraTransitionalB))
}

func TestNormalize_LocksAnnualMonths(t *testing.T) {
	eras := cpi.DefaultEraTable()

	assert.Equal(t, period(1989, time.December), eras.Normalize(period(1989, time.June)))
	assert.Equal(t, period(1988, time.December), eras.Normalize(period(1988, time.January)))
	assert.Equal(t, period(1991, time.June), eras.Normalize(period(1991, time.June)))
	assert.Equal(t, []int{1988, 1989, 1990}, eras.AnnualYears())
	assert.Equal(t, time.December, eras.SentinelMonth())
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func TestTransition_Categories(t *testing.T) {
	eras := cpi.DefaultEraTable()

	tests := []struct {
		name       string
		start, end cpi.Period
		want       cpi.TransitionCategory
		from, to   cpi.Era
	}{
		{"same year across redenomination", period(1995, time.January), period(1995, time.December), cpi.CategoryBToCurrent, cpi.EraTransitionalB, cpi.EraCurrent},
		{"same current later", period(2000, time.January), period(2020, time.January), cpi.CategorySameEra, cpi.EraCurrent, cpi.EraCurrent},
		{"same B", period(1993, time.September), period(1995, time.March), cpi.CategorySameEra, cpi.EraTransitionalB, cpi.EraTransitionalB},
		{"annual to A", period(1989, time.December), period(1992, time.May), cpi.CategorySameEra, cpi.EraAnnualCoefficient, cpi.EraTransitionalA},
		{"A to B", period(1992, time.January), period(1994, time.January), cpi.CategoryAToB, cpi.EraTransitionalA, cpi.EraTransitionalB},
		{"A to current", period(1993, time.January), period(1996, time.January), cpi.CategoryAToCurrent, cpi.EraTransitionalA, cpi.EraCurrent},
		{"annual to current", period(1988, time.December), period(2024, time.December), cpi.CategoryAToCurrent, cpi.EraAnnualCoefficient, cpi.EraCurrent},
		{"B to current", period(1994, time.June), period(2001, time.June), cpi.CategoryBToCurrent, cpi.EraTransitionalB, cpi.EraCurrent},
		{"coexistence to B", period(1993, time.May), period(1994, time.May), cpi.CategoryCoexistenceToLater, cpi.EraTransitionalB, cpi.EraTransitionalB},
		{"coexistence to current", period(1993, time.June), period(2000, time.June), cpi.CategoryCoexistenceToLater, cpi.EraTransitionalB, cpi.EraCurrent},
		{"inside coexistence", period(1993, time.April), period(1993, time.July), cpi.CategorySameEra, cpi.EraTransitionalA, cpi.EraTransitionalA},
		{"A into coexistence", period(1992, time.April), period(1993, time.May), cpi.CategorySameEra, cpi.EraTransitionalA, cpi.EraTransitionalA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := cpi.NewRange(tt.start, tt.end)
			require.NoError(t, err)

			tr := eras.Transition(r)
			assert.Equal(t, tt.want, tr.Category)
			assert.Equal(t, tt.from, tr.From)
			assert.Equal(t, tt.to, tr.To)
		})
	}
}

func TestTransition_CoexistenceNeverDoubleConverts(t *testing.T) {
	eras := cpi.DefaultEraTable()
	tr := eras.Transition(cpi.Range{Start: period(1993, time.July), End: period(1996, time.July)})

	from, to := tr.Units()
	assert.True(t, tr.Coexistence)
	// Resolved to B, so only the B -> current boundary is crossed.
	assert.Equal(t, cpi.EraTransitionalB, from)
	assert.Equal(t, cpi.EraCurrent, to)
	assert.True(t, tr.CrossesBoundary())
}

// =============================================================================
// ERA TABLE CONFIGURATION
// =============================================================================

func TestParseEraTable_MatchesDefault(t *testing.T) {
	data := []byte(`
sentinel_month: 12
eras:
  - era: annual_coefficient
    from: "1988-01"
    until: "1991-01"
  - era: transitional_a
    from: "1988-01"
    until: "1993-08"
  - era: transitional_b
    from: "1993-04"
    until: "1995-10"
  - era: current
    from: "1995-10"
`)
	table, err := cpi.ParseEraTable(data)
	require.NoError(t, err)
	assert.Equal(t, cpi.DefaultEraTable().Boundaries(), table.Boundaries())
}

func TestParseEraTable_ShiftedBoundary(t *testing.T) {
	data := []byte(`
eras:
  - era: transitional_a
    from: "1988-01"
    until: "1993-04"
  - era: transitional_b
    from: "1993-04"
    until: "1995-09"
  - era: current
    from: "1995-09"
`)
	table, err := cpi.ParseEraTable(data)
	require.NoError(t, err)
	assert.Equal(t, cpi.EraCurrent, table.Classify(period(1995, time.September)))
	assert.False(t, table.InCoexistence(period(1993, time.May)))
	assert.Equal(t, cpi.DefaultSentinelMonth, table.SentinelMonth())
}

func TestParseEraTable_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown era": `
eras:
  - era: rouble
    from: "1988-01"`,
		"gap": `
eras:
  - era: transitional_a
    from: "1988-01"
    until: "1990-01"
  - era: current
    from: "1991-01"`,
		"closed last era": `
eras:
  - era: current
    from: "1995-10"
    until: "2000-01"`,
		"bad period": `
eras:
  - era: current
    from: "1995-13"`,
		"empty": `eras: []`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := cpi.ParseEraTable([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEraTable_MarshalYAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(cpi.DefaultEraTable())
	require.NoError(t, err)

	table, err := cpi.ParseEraTable(out)
	require.NoError(t, err)
	assert.Equal(t, cpi.DefaultEraTable().Boundaries(), table.Boundaries())
}

func TestEra_TextRoundTrip(t *testing.T) {
	for _, e := range []cpi.Era{cpi.EraAnnualCoefficient, cpi.EraTransitionalA, cpi.EraTransitionalB, cpi.EraCurrent} {
		text, err := e.MarshalText()
		require.NoError(t, err)

		var back cpi.Era
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, e, back)
	}
}
