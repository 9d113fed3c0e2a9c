package cpi

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// SeriesPoint is one month of the chart trajectory. Nil pointers mean the
// provider had no index for that month.
type SeriesPoint struct {
	Period                 Period
	Index                  *decimal.Decimal
	PercentChangeFromStart *decimal.Decimal
	Value                  *decimal.Decimal
}

// Available reports whether the point was computed.
func (p SeriesPoint) Available() bool { return p.PercentChangeFromStart != nil }

// ComputeSeries resolves the start index once, then every month of the
// range in parallel. A month that cannot be resolved yields a nil point
// instead of failing the series; only a missing or zero start index, an
// invalid range or a cancelled context fail the whole call. Points are
// returned in calendar order, one per month.
func (c *Calculator) ComputeSeries(ctx context.Context, r Range, amount decimal.Decimal) ([]SeriesPoint, error) {
	r, err := c.validate(r)
	if err != nil {
		return nil, err
	}

	startIndex, err := c.provider.Resolve(ctx, r.Start)
	if err != nil {
		return nil, err
	}
	if startIndex.IsZero() {
		return nil, ErrDivisionByZero
	}

	months := MonthsBetween(r)
	points := make([]SeriesPoint, len(months))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, p := range months {
		i, p := i, p
		g.Go(func() error {
			// Each goroutine writes only its own slot.
			points[i] = c.seriesPoint(ctx, p, startIndex, amount)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	missing := 0
	for _, pt := range points {
		if !pt.Available() {
			missing++
		}
	}
	c.log.WithFields(logrus.Fields{
		"range":   r.String(),
		"points":  len(points),
		"missing": missing,
	}).Debug("computed series")

	return points, nil
}

func (c *Calculator) seriesPoint(ctx context.Context, p Period, startIndex, amount decimal.Decimal) SeriesPoint {
	point := SeriesPoint{Period: p}

	index, err := c.provider.Resolve(ctx, p)
	if err != nil {
		if !errors.Is(err, ErrIndexUnavailable) && ctx.Err() == nil {
			c.log.WithError(err).WithField("period", p.String()).Warn("series lookup failed")
		}
		return point
	}

	change, err := PercentChange(startIndex, index)
	if err != nil {
		return point
	}
	value := amount.Mul(index).Div(startIndex).Round(Precision)

	point.Index = &index
	point.PercentChangeFromStart = &change
	point.Value = &value
	return point
}
