/*
calculator.go - Public entry points of the CPI calculation core

PURPOSE:
  Ties the pieces together for the surrounding application:

    caller input -> NewRange (validate, lock annual months)
                 -> IndexProvider (start and end lookups)
                 -> EraTable.Transition (unit / narrative category)
                 -> PercentChange, ConvertAmount

ENTRY POINTS:
  ComputeChange: one percentage change and converted amount
  ComputeSeries: the monthly trajectory for charting (series.go)

STATE:
  A Calculator holds only configuration. Every call builds new result
  values from its arguments, so repeated calls with the same input give the
  same output and concurrent calls never share mutable state.

CANCELLATION:
  The caller owns it. Pass a context and drop the result if inputs change;
  the core adds no timeouts of its own.

SEE ALSO:
  - era.go: Transition classification
  - inflation.go: Arithmetic
  - provider.go: Index lookups
*/
package cpi

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel provider lookups in a series.
const DefaultConcurrency = 8

// Result is the outcome of one calculation. It is derived, never stored.
type Result struct {
	Range           Range
	PercentChange   decimal.Decimal
	Amount          Amount
	ConvertedAmount Amount
	StartIndex      decimal.Decimal
	EndIndex        decimal.Decimal
	Transition      Transition
}

// Calculator computes inflation over ranges of published index data.
type Calculator struct {
	provider    IndexProvider
	eras        *EraTable
	bounds      Bounds
	concurrency int
	log         logrus.FieldLogger
}

type Option func(*Calculator)

// WithEraTable replaces the default boundary table.
func WithEraTable(t *EraTable) Option {
	return func(c *Calculator) {
		if t != nil {
			c.eras = t
		}
	}
}

// WithBounds sets the supported year range.
func WithBounds(b Bounds) Option {
	return func(c *Calculator) { c.bounds = b }
}

// WithConcurrency limits parallel lookups in ComputeSeries.
func WithConcurrency(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCalculator creates a calculator over the given provider.
func NewCalculator(provider IndexProvider, opts ...Option) *Calculator {
	c := &Calculator{
		provider:    provider,
		eras:        DefaultEraTable(),
		bounds:      DefaultBounds(),
		concurrency: DefaultConcurrency,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) Eras() *EraTable { return c.eras }
func (c *Calculator) Bounds() Bounds  { return c.bounds }

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// NewRange validates raw caller input. Months in the annual-coefficient
// regime are locked to the sentinel month before ordering is checked.
func (c *Calculator) NewRange(startYear, startMonth, endYear, endMonth int) (Range, error) {
	start, err := c.bounds.NewPeriod(startYear, startMonth)
	if err != nil {
		return Range{}, err
	}
	end, err := c.bounds.NewPeriod(endYear, endMonth)
	if err != nil {
		return Range{}, err
	}
	return c.validate(Range{Start: start, End: end})
}

// validate checks bounds, locks annual months and checks ordering. It runs
// before any provider call.
func (c *Calculator) validate(r Range) (Range, error) {
	if err := c.bounds.Check(r.Start); err != nil {
		return Range{}, err
	}
	if err := c.bounds.Check(r.End); err != nil {
		return Range{}, err
	}
	r = Range{Start: c.eras.Normalize(r.Start), End: c.eras.Normalize(r.End)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// =============================================================================
// COMPUTE CHANGE
// =============================================================================

// ComputeChange resolves both endpoint indexes and returns the percentage
// change and the converted amount. Any lookup failure is fatal to the
// calculation and returned as-is.
func (c *Calculator) ComputeChange(ctx context.Context, r Range, amount decimal.Decimal) (Result, error) {
	r, err := c.validate(r)
	if err != nil {
		return Result{}, err
	}

	var startIndex, endIndex decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.provider.Resolve(gctx, r.Start)
		startIndex = v
		return err
	})
	g.Go(func() error {
		v, err := c.provider.Resolve(gctx, r.End)
		endIndex = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	tr := c.eras.Transition(r)
	change, err := PercentChange(startIndex, endIndex)
	if err != nil {
		c.log.WithFields(logrus.Fields{"range": r.String(), "start_index": startIndex.String()}).
			Error("degenerate start index")
		return Result{}, err
	}
	converted, err := ConvertAmount(amount, startIndex, endIndex, tr)
	if err != nil {
		return Result{}, err
	}

	c.log.WithFields(logrus.Fields{
		"range":          r.String(),
		"percent_change": change.String(),
		"transition":     string(tr.Category),
	}).Debug("computed change")

	from, _ := tr.Units()
	return Result{
		Range:           r,
		PercentChange:   change,
		Amount:          Amount{Value: amount, Unit: from},
		ConvertedAmount: converted,
		StartIndex:      startIndex,
		EndIndex:        endIndex,
		Transition:      tr,
	}, nil
}
