/*
handlers.go - HTTP API handlers for the CPI calculator

PURPOSE:
  Exposes the calculation core over REST. Handles request parsing,
  JSON serialization, and maps core errors to HTTP status codes. All
  arithmetic and classification happen in package cpi.

ENDPOINTS:
  GET /api/cpiindexes/{year}/{month}  Published index for one month
  GET /api/change                     Percent change and converted amount
        ?start=YYYY-MM&end=YYYY-MM&amount=N   (amount defaults to 100)
  GET /api/series                     Monthly trajectory for charting
        ?start=YYYY-MM&end=YYYY-MM&amount=N
  GET /api/eras/{year}/{month}        Era classification of one month
  GET /api/periods                    Selectable years and locked months

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid period, inverted range, malformed query
  - 404: No published index for a requested month
  - 500: Degenerate index data (zero start index), storage failures

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/cpi-engine/cpi"
)

// DefaultAmount is used when a request omits amount.
var DefaultAmount = decimal.NewFromInt(100)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Calc     *cpi.Calculator
	Provider cpi.IndexProvider

	// coverage is set when the provider can report its data range.
	coverage cpi.CoverageProvider
	log      logrus.FieldLogger
}

// NewHandler creates a handler. provider must be the one calc resolves
// against.
func NewHandler(calc *cpi.Calculator, provider cpi.IndexProvider, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{Calc: calc, Provider: provider, log: log}
	if cp, ok := provider.(cpi.CoverageProvider); ok {
		h.coverage = cp
	}
	return h
}

// =============================================================================
// INDEX
// =============================================================================

// GetCPIIndex returns the current published index for one month as a list,
// or 404 when nothing was published.
// GET /api/cpiindexes/{year}/{month}
func (h *Handler) GetCPIIndex(w http.ResponseWriter, r *http.Request) {
	p, err := h.pathPeriod(r)
	if err != nil {
		writeCPIError(w, err)
		return
	}

	v, err := h.Provider.Resolve(r.Context(), p)
	if err != nil {
		if cpi.IsNotFound(err) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("No CPI index found for %s", p), nil)
			return
		}
		h.log.WithError(err).WithField("period", p.String()).Error("index lookup failed")
		writeCPIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, []CPIIndexDTO{{Year: p.Year, Month: int(p.Month), Index: v.String()}})
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// GetChange computes the percent change and converted amount.
// GET /api/change?start=YYYY-MM&end=YYYY-MM&amount=N
func (h *Handler) GetChange(w http.ResponseWriter, r *http.Request) {
	rng, amount, err := h.parseCalcQuery(r)
	if err != nil {
		writeCPIError(w, err)
		return
	}

	res, err := h.Calc.ComputeChange(r.Context(), rng, amount)
	if err != nil {
		writeCPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChangeDTO(res))
}

// GetSeries returns the monthly trajectory. Months without a published
// index come back with null values; only a missing start month fails.
// GET /api/series?start=YYYY-MM&end=YYYY-MM&amount=N
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	rng, amount, err := h.parseCalcQuery(r)
	if err != nil {
		writeCPIError(w, err)
		return
	}

	points, err := h.Calc.ComputeSeries(r.Context(), rng, amount)
	if err != nil {
		writeCPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSeriesDTO(rng, amount, points))
}

// =============================================================================
// ERAS AND PERIODS
// =============================================================================

// GetEra classifies one month.
// GET /api/eras/{year}/{month}
func (h *Handler) GetEra(w http.ResponseWriter, r *http.Request) {
	p, err := h.pathPeriod(r)
	if err != nil {
		writeCPIError(w, err)
		return
	}

	eras := h.Calc.Eras()
	matched := eras.Eras(p)
	names := make([]string, len(matched))
	for i, e := range matched {
		names[i] = e.String()
	}

	writeJSON(w, http.StatusOK, EraDTO{
		Period:      p.String(),
		Primary:     eras.Classify(p).String(),
		Eras:        names,
		Coexistence: eras.InCoexistence(p),
		Annual:      eras.IsAnnual(p),
		Normalized:  eras.Normalize(p).String(),
	})
}

// GetPeriods lists selectable years, newest first, and the years whose
// month is locked to the sentinel.
// GET /api/periods
func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	eras := h.Calc.Eras()
	dto := PeriodsDTO{
		Years:         h.Calc.Bounds().Years(),
		AnnualYears:   eras.AnnualYears(),
		SentinelMonth: int(eras.SentinelMonth()),
	}
	if dto.AnnualYears == nil {
		dto.AnnualYears = []int{}
	}

	if h.coverage != nil {
		cov, err := h.coverage.Coverage(r.Context())
		switch {
		case err == nil:
			dto.Coverage = &RangeDTO{Start: cov.Start.String(), End: cov.End.String()}
		case cpi.IsNotFound(err):
		default:
			h.log.WithError(err).Warn("coverage lookup failed")
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

var errMalformedQuery = errors.New("malformed query")

// queryError is a client input problem that is not a period or range error.
type queryError struct {
	Param  string
	Reason string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Reason)
}

func (e *queryError) Unwrap() error { return errMalformedQuery }

func (h *Handler) pathPeriod(r *http.Request) (cpi.Period, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return cpi.Period{}, &queryError{Param: "year", Reason: "must be an integer"}
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return cpi.Period{}, &queryError{Param: "month", Reason: "must be an integer"}
	}
	return h.Calc.Bounds().NewPeriod(year, month)
}

// parseCalcQuery reads start, end and amount and validates the range the
// same way the calculator will, so input errors never reach the provider.
func (h *Handler) parseCalcQuery(r *http.Request) (cpi.Range, decimal.Decimal, error) {
	q := r.URL.Query()

	var ends [2]cpi.Period
	for i, name := range []string{"start", "end"} {
		raw := q.Get(name)
		if raw == "" {
			return cpi.Range{}, decimal.Zero, &queryError{Param: name, Reason: "required (YYYY-MM)"}
		}
		p, err := cpi.ParsePeriod(raw)
		if err != nil {
			return cpi.Range{}, decimal.Zero, err
		}
		ends[i] = p
	}

	amount := DefaultAmount
	if raw := q.Get("amount"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return cpi.Range{}, decimal.Zero, &queryError{Param: "amount", Reason: "must be a decimal number"}
		}
		amount = v
	}

	rng, err := h.Calc.NewRange(ends[0].Year, int(ends[0].Month), ends[1].Year, int(ends[1].Month))
	if err != nil {
		return cpi.Range{}, decimal.Zero, err
	}
	return rng, amount, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeCPIError maps core errors to a status code.
func writeCPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errMalformedQuery):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, cpi.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "Invalid period", err)
	case errors.Is(err, cpi.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "Invalid period: the start date must not be after the end date", err)
	case cpi.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Index not published", err)
	case cpi.IsDataIntegrity(err):
		writeError(w, http.StatusInternalServerError, "Index data integrity error", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func strPtr(s string) *string {
	return &s
}
