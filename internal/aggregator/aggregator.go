// Package aggregator rolls the canonical dataset up into monthly statistics
// for one station and year.
package aggregator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/rain-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/couchcryptid/rain-analysis/internal/observability"
)

// ErrEmptyInput means the canonical dataset did not even hold a header line.
var ErrEmptyInput = errors.New("empty input")

// Aggregator accumulates canonical rows into monthly buckets.
type Aggregator struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Aggregator.
func New(logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{logger: logger, metrics: metrics}
}

// Aggregate scans the canonical dataset in r once and returns the twelve
// monthly rows for sel. The first line is taken as the header whatever it
// holds. Rows that are malformed or belong to another year are skipped;
// a measurement that is present but not numeric aborts the run with a
// *domain.FieldError.
func (a *Aggregator) Aggregate(r io.Reader, sel domain.Selection) (domain.Summary, error) {
	sc := csvfile.NewLineScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return domain.Summary{}, fmt.Errorf("read header: %w", err)
		}
		return domain.Summary{}, ErrEmptyInput
	}

	var buckets domain.MonthlyBuckets
	lineNo := 1
	for sc.Scan() {
		lineNo++
		if sc.TooLong() {
			a.metrics.RowsFiltered.WithLabelValues("too_long").Inc()
			a.logger.Debug("canonical row skipped", "line", lineNo, "reason", "too_long")
			continue
		}
		line := sc.Text()
		if line == "" {
			continue
		}

		obs, err := domain.ParseCanonicalLine(line, sel)
		if err != nil {
			if domain.IsSkip(err) {
				a.metrics.RowsFiltered.WithLabelValues(filterReason(err)).Inc()
				continue
			}
			return domain.Summary{}, fmt.Errorf("line %d: %w", lineNo, err)
		}

		buckets.Add(obs)
		a.metrics.RowsAggregated.Inc()
	}
	if err := sc.Err(); err != nil {
		return domain.Summary{}, fmt.Errorf("read canonical dataset at line %d: %w", lineNo+1, err)
	}

	return domain.NewSummary(sel, &buckets), nil
}

func filterReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOtherYear):
		return "other_year"
	case errors.Is(err, domain.ErrTooFewFields):
		return "too_few_fields"
	case errors.Is(err, domain.ErrShortDate), errors.Is(err, domain.ErrBadYear):
		return "malformed_date"
	case errors.Is(err, domain.ErrBadMonth):
		return "bad_month"
	default:
		return "other"
	}
}
