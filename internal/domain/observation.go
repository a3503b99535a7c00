package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reasons a canonical row is left out of an aggregation. None of them is fatal.
var (
	ErrShortDate  = errors.New("date shorter than 10 characters")
	ErrBadYear    = errors.New("year is not an integer")
	ErrOtherYear  = errors.New("year not selected")
	ErrBadMonth   = errors.New("month out of range")
	errSkipReason = []error{ErrTooFewFields, ErrShortDate, ErrBadYear, ErrOtherYear, ErrBadMonth}
)

var columnNames = strings.Split(CanonicalHeader, ",")

// IsSkip reports whether err marks a row that should be silently left out,
// as opposed to a failure that ends the run.
func IsSkip(err error) bool {
	for _, target := range errSkipReason {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// FieldError reports a measurement that is present but not a number.
type FieldError struct {
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Temperature is an optional reading in degrees Celsius.
type Temperature struct {
	Celsius float64
	Valid   bool
}

// Observation is one canonical row reduced to the selected station.
type Observation struct {
	Month  int // 1-12
	RainMM float64
	Temp   Temperature
}

// ParseCanonicalLine extracts the selected station's observation from one
// canonical row. Structural problems and rows outside sel.Year are reported
// with errors for which IsSkip is true; an unparseable measurement yields a
// *FieldError.
func ParseCanonicalLine(line string, sel Selection) (Observation, error) {
	cols := strings.Split(line, ",")
	if len(cols) < NumColumns {
		return Observation{}, ErrTooFewFields
	}

	date := cols[ColDate]
	if len(date) < 10 {
		return Observation{}, ErrShortDate
	}

	year, err := strconv.Atoi(date[0:4])
	if err != nil {
		return Observation{}, ErrBadYear
	}
	if year != sel.Year {
		return Observation{}, ErrOtherYear
	}

	month, err := strconv.Atoi(date[5:7])
	if err != nil || month < 1 || month > 12 {
		return Observation{}, ErrBadMonth
	}

	rainCol, tempCol := sel.Station.Columns()

	rain, err := parseRain(cols[rainCol])
	if err != nil {
		return Observation{}, &FieldError{Column: columnNames[rainCol], Value: cols[rainCol], Err: err}
	}
	temp, err := parseTemperature(cols[tempCol])
	if err != nil {
		return Observation{}, &FieldError{Column: columnNames[tempCol], Value: cols[tempCol], Err: err}
	}

	return Observation{Month: month, RainMM: rain, Temp: temp}, nil
}

// ErrNotFinite is the FieldError cause for a rainfall of NaN or ±Inf.
var ErrNotFinite = errors.New("not a finite number")

// parseRain treats an empty field as no rain. NaN and infinities are
// rejected like any other non-numeric text.
func parseRain(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// parseTemperature treats an empty field, NaN or an infinity as a missing
// reading.
func parseTemperature(s string) (Temperature, error) {
	if s == "" {
		return Temperature{}, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Temperature{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Temperature{}, nil
	}
	return Temperature{Celsius: v, Valid: true}, nil
}
