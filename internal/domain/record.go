package domain

import (
	"errors"
	"strings"
)

// Canonical column indices.
const (
	ColDate = iota
	ColRainA
	ColTempA
	ColRainB
	ColTempB

	// NumColumns is the minimum field count of a raw line or canonical row.
	NumColumns
)

// CanonicalHeader is the first line of every canonical dataset.
const CanonicalHeader = "date,rain_A_mm,temp_A_C,rain_B_mm,temp_B_C"

// RawHeaderLines is the number of leading raw-feed lines that hold no data.
const RawHeaderLines = 2

// Reasons a raw line is rejected by the Normalizer.
var (
	ErrEmptyLine     = errors.New("empty line")
	ErrTooFewFields  = errors.New("too few fields")
	ErrMalformedDate = errors.New("malformed date")
)

// trimSet is the whitespace stripped from raw lines and date fields.
// Carriage returns are not in it.
const trimSet = " \t\n"

// CanonicalRecord is one accepted observation day. Only Date is guaranteed
// well-formed; the measurements are the raw feed text, untouched.
type CanonicalRecord struct {
	Date  string
	RainA string
	TempA string
	RainB string
	TempB string
}

// Fields returns the record in canonical column order.
func (r CanonicalRecord) Fields() []string {
	return []string{r.Date, r.RainA, r.TempA, r.RainB, r.TempB}
}

// String renders the record as a canonical CSV row without a line terminator.
func (r CanonicalRecord) String() string {
	return strings.Join(r.Fields(), ",")
}

// ParseRawLine validates one semicolon-delimited line of the raw feed.
// Fields past the fifth are ignored.
func ParseRawLine(line string) (CanonicalRecord, error) {
	t := strings.Trim(line, trimSet)
	if t == "" {
		return CanonicalRecord{}, ErrEmptyLine
	}

	cols := strings.Split(t, ";")
	if len(cols) < NumColumns {
		return CanonicalRecord{}, ErrTooFewFields
	}

	date := strings.Trim(cols[ColDate], trimSet)
	if !LooksLikeDate(date) {
		return CanonicalRecord{}, ErrMalformedDate
	}

	return CanonicalRecord{
		Date:  date,
		RainA: cols[ColRainA],
		TempA: cols[ColTempA],
		RainB: cols[ColRainB],
		TempB: cols[ColTempB],
	}, nil
}

// LooksLikeDate reports whether s has the exact shape DDDD-DD-DD.
// No calendar check is made.
func LooksLikeDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
