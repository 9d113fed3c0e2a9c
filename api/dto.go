/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures returned to clients. Decimal values are sent
  as strings so no client ever sees a float rounding of an index or amount.
  Percentages and money are fixed to two decimals; index values keep the
  precision they were published with.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - ErrorResponse: Every non-2xx body

TYPES:
  Index:      CPIIndexDTO
  Change:     ChangeDTO, MoneyDTO, TransitionDTO
  Series:     SeriesDTO, SeriesPointDTO
  Eras:       EraDTO
  Periods:    PeriodsDTO, RangeDTO

SEE ALSO:
  - handlers.go: Uses these types
  - cpi/calculator.go: Result
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/cpi-engine/cpi"
)

// =============================================================================
// INDEX
// =============================================================================

// CPIIndexDTO is one published index value.
type CPIIndexDTO struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Index string `json:"index"`
}

// =============================================================================
// CHANGE
// =============================================================================

// MoneyDTO is an amount labelled with the currency of its era.
type MoneyDTO struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type TransitionDTO struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Category        string `json:"category"`
	Coexistence     bool   `json:"coexistence"`
	CrossesBoundary bool   `json:"crosses_boundary"`
}

// ChangeDTO is the response of GET /api/change.
type ChangeDTO struct {
	Start           string        `json:"start"`
	End             string        `json:"end"`
	StartIndex      string        `json:"start_index"`
	EndIndex        string        `json:"end_index"`
	PercentChange   string        `json:"percent_change"`
	Amount          MoneyDTO      `json:"amount"`
	ConvertedAmount MoneyDTO      `json:"converted_amount"`
	Transition      TransitionDTO `json:"transition"`
	Note            string        `json:"note"`
}

// endInclusiveNote accompanies every change result.
const endInclusiveNote = "Both the start and the end month are included in the calculation."

func toMoneyDTO(a cpi.Amount) MoneyDTO {
	return MoneyDTO{Value: a.Value.StringFixed(cpi.Precision), Unit: a.Unit.String()}
}

func toTransitionDTO(t cpi.Transition) TransitionDTO {
	return TransitionDTO{
		From:            t.From.String(),
		To:              t.To.String(),
		Category:        string(t.Category),
		Coexistence:     t.Coexistence,
		CrossesBoundary: t.CrossesBoundary(),
	}
}

func toChangeDTO(res cpi.Result) ChangeDTO {
	return ChangeDTO{
		Start:           res.Range.Start.String(),
		End:             res.Range.End.String(),
		StartIndex:      res.StartIndex.String(),
		EndIndex:        res.EndIndex.String(),
		PercentChange:   res.PercentChange.StringFixed(cpi.Precision),
		Amount:          toMoneyDTO(res.Amount),
		ConvertedAmount: toMoneyDTO(res.ConvertedAmount),
		Transition:      toTransitionDTO(res.Transition),
		Note:            endInclusiveNote,
	}
}

// =============================================================================
// SERIES
// =============================================================================

// SeriesPointDTO is one month of the chart. Null fields mean no index was
// published for that month.
type SeriesPointDTO struct {
	Period        string  `json:"period"`
	Index         *string `json:"index"`
	PercentChange *string `json:"percent_change"`
	Value         *string `json:"value"`
}

type SeriesDTO struct {
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Amount  string           `json:"amount"`
	Missing int              `json:"missing"`
	Points  []SeriesPointDTO `json:"points"`
}

func toSeriesDTO(r cpi.Range, amount decimal.Decimal, points []cpi.SeriesPoint) SeriesDTO {
	dto := SeriesDTO{
		Start:  r.Start.String(),
		End:    r.End.String(),
		Amount: amount.StringFixed(cpi.Precision),
		Points: make([]SeriesPointDTO, len(points)),
	}
	for i, p := range points {
		pt := SeriesPointDTO{Period: p.Period.String()}
		if p.Available() {
			pt.Index = strPtr(p.Index.String())
			pt.PercentChange = strPtr(p.PercentChangeFromStart.StringFixed(cpi.Precision))
			pt.Value = strPtr(p.Value.StringFixed(cpi.Precision))
		} else {
			dto.Missing++
		}
		dto.Points[i] = pt
	}
	return dto
}

// =============================================================================
// ERAS AND PERIODS
// =============================================================================

// EraDTO describes how one month is classified.
type EraDTO struct {
	Period      string   `json:"period"`
	Primary     string   `json:"primary"`
	Eras        []string `json:"eras"`
	Coexistence bool     `json:"coexistence"`
	Annual      bool     `json:"annual"`
	Normalized  string   `json:"normalized"`
}

type RangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodsDTO tells a client which years and months it may offer.
type PeriodsDTO struct {
	Years         []int     `json:"years"`
	AnnualYears   []int     `json:"annual_years"`
	SentinelMonth int       `json:"sentinel_month"`
	Coverage      *RangeDTO `json:"coverage,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
