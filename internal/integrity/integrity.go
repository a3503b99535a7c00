// Package integrity checks a canonical dataset and a monthly summary file
// for structural soundness and for agreement with each other.
package integrity

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/rain-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/rain-analysis/internal/aggregator"
	"github.com/couchcryptid/rain-analysis/internal/domain"
)

// maxRainyDays is the longest calendar month.
const maxRainyDays = 31

// Phase collects the failures found by one validation phase.
type Phase struct {
	Name   string
	Rows   int
	Errors []string
}

func (p *Phase) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Passed reports whether the phase found no problems.
func (p *Phase) Passed() bool { return len(p.Errors) == 0 }

// CheckCanonical verifies the header of a canonical dataset and that every
// data row has all columns and a well-shaped date.
func CheckCanonical(r io.Reader) *Phase {
	p := &Phase{Name: "Phase 1: Canonical dataset"}

	sc := csvfile.NewLineScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			p.errorf("read header: %v", err)
		} else {
			p.errorf("file is empty")
		}
		return p
	}
	if got := sc.Text(); got != domain.CanonicalHeader {
		p.errorf("header: got %q, want %q", got, domain.CanonicalHeader)
	}

	lineNo := 1
	for sc.Scan() {
		lineNo++
		if sc.TooLong() {
			p.Rows++
			p.errorf("line %d: longer than %d bytes", lineNo, csvfile.MaxLineBytes)
			continue
		}
		line := sc.Text()
		if line == "" {
			p.errorf("line %d: empty", lineNo)
			continue
		}
		p.Rows++

		cols := strings.Split(line, ",")
		if len(cols) < domain.NumColumns {
			p.errorf("line %d: %d fields, want %d", lineNo, len(cols), domain.NumColumns)
			continue
		}
		if !domain.LooksLikeDate(cols[domain.ColDate]) {
			p.errorf("line %d: malformed date %q", lineNo, cols[domain.ColDate])
		}
	}
	if err := sc.Err(); err != nil {
		p.errorf("read line %d: %v", lineNo+1, err)
	}
	return p
}

// CheckSummary verifies that a summary file holds twelve well-formed months
// in calendar order.
func CheckSummary(r io.Reader) *Phase {
	p := &Phase{Name: "Phase 2: Monthly summary"}

	sc := csvfile.NewLineScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			p.errorf("read header: %v", err)
		} else {
			p.errorf("file is empty")
		}
		return p
	}
	if got := sc.Text(); got != domain.SummaryHeader {
		p.errorf("header: got %q, want %q", got, domain.SummaryHeader)
	}

	for sc.Scan() {
		p.Rows++
		if sc.TooLong() {
			p.errorf("row %d: longer than %d bytes", p.Rows, csvfile.MaxLineBytes)
			continue
		}
		checkSummaryRow(p, p.Rows, sc.Text())
	}
	if err := sc.Err(); err != nil {
		p.errorf("read row %d: %v", p.Rows+1, err)
	}
	if p.Rows != 12 {
		p.errorf("got %d month rows, want 12", p.Rows)
	}
	return p
}

func checkSummaryRow(p *Phase, want int, line string) {
	cols := strings.Split(line, ",")
	if len(cols) != 5 {
		p.errorf("row %d: %d fields, want 5", want, len(cols))
		return
	}

	if month, err := strconv.Atoi(cols[0]); err != nil || month != want {
		p.errorf("row %d: month %q out of order", want, cols[0])
	}

	rain, err := strconv.ParseFloat(cols[1], 64)
	switch {
	case err != nil:
		p.errorf("row %d: total_rain_mm %q is not a number", want, cols[1])
	case rain < 0:
		p.errorf("row %d: total_rain_mm %s is negative", want, cols[1])
	}

	tmax, errMax := strconv.ParseFloat(cols[2], 64)
	if errMax != nil {
		p.errorf("row %d: monthly_tmax_C %q is not a number", want, cols[2])
	}
	tmin, errMin := strconv.ParseFloat(cols[3], 64)
	if errMin != nil {
		p.errorf("row %d: monthly_tmin_C %q is not a number", want, cols[3])
	}
	if errMax == nil && errMin == nil && tmin > tmax {
		p.errorf("row %d: tmin %s above tmax %s", want, cols[3], cols[2])
	}

	days, err := strconv.Atoi(cols[4])
	switch {
	case err != nil:
		p.errorf("row %d: rainy_days %q is not an integer", want, cols[4])
	case days < 0 || days > maxRainyDays:
		p.errorf("row %d: rainy_days %d outside 0-%d", want, days, maxRainyDays)
	}
}

// CheckRecompute aggregates the canonical dataset for sel again and
// requires the result to match summary byte for byte.
func CheckRecompute(canonical io.Reader, summary []byte, sel domain.Selection, agg *aggregator.Aggregator) *Phase {
	p := &Phase{Name: fmt.Sprintf("Phase 3: Recompute (station %s, %d)", sel.Station, sel.Year)}

	s, err := agg.Aggregate(canonical, sel)
	if err != nil {
		p.errorf("aggregate: %v", err)
		return p
	}

	var buf bytes.Buffer
	if err := csvfile.WriteSummary(&buf, s); err != nil {
		p.errorf("encode summary: %v", err)
		return p
	}
	p.Rows = len(s.Months)

	if !bytes.Equal(buf.Bytes(), summary) {
		p.errorf("%s", firstDifference(buf.String(), string(summary)))
	}
	return p
}

func firstDifference(want, got string) string {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g {
			return fmt.Sprintf("line %d: recomputed %q, file has %q", i+1, w, g)
		}
	}
	return "files differ"
}
