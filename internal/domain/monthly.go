package domain

import (
	"fmt"
	"strconv"
	"time"
)

// SummaryHeader is the first line of every monthly summary file.
const SummaryHeader = "month,total_rain_mm,monthly_tmax_C,monthly_tmin_C,rainy_days"

// MonthlyBucket accumulates one calendar month of observations.
type MonthlyBucket struct {
	RainTotal float64
	RainyDays int

	tempMax float64
	tempMin float64
	hasTemp bool
}

// Add folds one observation into the bucket. Negative rainfall counts as
// zero and never makes a rainy day.
func (b *MonthlyBucket) Add(o Observation) {
	if o.RainMM > 0 {
		b.RainyDays++
		b.RainTotal += o.RainMM
	}

	if !o.Temp.Valid {
		return
	}
	t := o.Temp.Celsius
	if !b.hasTemp {
		b.tempMax, b.tempMin, b.hasTemp = t, t, true
		return
	}
	// Strict comparisons keep the first of two equal-valued zeros.
	if t > b.tempMax {
		b.tempMax = t
	}
	if t < b.tempMin {
		b.tempMin = t
	}
}

// Extremes returns the month's highest and lowest temperature. ok is false
// when the month had no temperature reading.
func (b *MonthlyBucket) Extremes() (tmax, tmin float64, ok bool) {
	return b.tempMax, b.tempMin, b.hasTemp
}

// MonthlyBuckets holds one bucket per calendar month. Addressing is 1-based
// through At; the backing array is 0-based and not exported.
type MonthlyBuckets struct {
	months [12]MonthlyBucket
}

// At returns the bucket for month (1-12). It panics on any other month.
func (mb *MonthlyBuckets) At(month int) *MonthlyBucket {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("domain: month %d out of range", month))
	}
	return &mb.months[month-1]
}

// Add routes an observation to its month.
func (mb *MonthlyBuckets) Add(o Observation) {
	mb.At(o.Month).Add(o)
}

// Rows finalizes the buckets into twelve summary rows ordered January to December.
func (mb *MonthlyBuckets) Rows() [12]MonthlySummaryRow {
	var rows [12]MonthlySummaryRow
	for m := 1; m <= 12; m++ {
		b := mb.At(m)
		row := MonthlySummaryRow{
			Month:       m,
			TotalRainMM: b.RainTotal,
			RainyDays:   b.RainyDays,
		}
		if tmax, tmin, ok := b.Extremes(); ok {
			row.TempMaxC = &tmax
			row.TempMinC = &tmin
		}
		rows[m-1] = row
	}
	return rows
}

// MonthlySummaryRow is one output line of the monthly summary. TempMaxC and
// TempMinC are nil when the month had no temperature data.
type MonthlySummaryRow struct {
	Month       int      `json:"month"`
	TotalRainMM float64  `json:"total_rain_mm"`
	TempMaxC    *float64 `json:"monthly_tmax_C"`
	TempMinC    *float64 `json:"monthly_tmin_C"`
	RainyDays   int      `json:"rainy_days"`
}

// HasTempData reports whether the month saw any temperature reading.
func (r MonthlySummaryRow) HasTempData() bool {
	return r.TempMaxC != nil && r.TempMinC != nil
}

// CSVFields renders the row for the summary file. Months without
// temperature data are zero-filled here and nowhere earlier; downstream
// plotting expects a number in every cell.
func (r MonthlySummaryRow) CSVFields() []string {
	return []string{
		strconv.Itoa(r.Month),
		FormatFloat(r.TotalRainMM),
		FormatFloat(zeroIfNil(r.TempMaxC)),
		FormatFloat(zeroIfNil(r.TempMinC)),
		strconv.Itoa(r.RainyDays),
	}
}

func zeroIfNil(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Summary is the result of one aggregation run.
type Summary struct {
	Selection  Selection
	Months     [12]MonthlySummaryRow // Months[0] is January
	ComputedAt time.Time
}

// NewSummary finalizes buckets for sel, stamping the package clock.
func NewSummary(sel Selection, buckets *MonthlyBuckets) Summary {
	return Summary{
		Selection:  sel,
		Months:     buckets.Rows(),
		ComputedAt: clock.Now(),
	}
}

// Month returns the row for month (1-12).
func (s Summary) Month(month int) MonthlySummaryRow {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("domain: month %d out of range", month))
	}
	return s.Months[month-1]
}

// FormatFloat writes v with six significant digits in the shortest %g form,
// the same text a default-configured C++ ostream produces.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
