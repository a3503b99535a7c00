// Command validate checks a canonical dataset and, optionally, a monthly
// summary produced from it. With -year and -station it also recomputes the
// summary and requires the file to match byte for byte.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -canonical data_clean/Rain_temperature_cleaned.csv \
//	  -summary results/monthly_A_1961.csv \
//	  -year 1961 -station A
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/rain-analysis/internal/aggregator"
	"github.com/couchcryptid/rain-analysis/internal/domain"
	"github.com/couchcryptid/rain-analysis/internal/integrity"
	"github.com/couchcryptid/rain-analysis/internal/observability"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	canonical string
	summary   string
	year      int
	station   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.canonical, "canonical", "", "path to the canonical dataset")
	fs.StringVar(&o.summary, "summary", "", "path to a monthly summary file")
	fs.IntVar(&o.year, "year", 0, "year the summary was computed for")
	fs.StringVar(&o.station, "station", "", "station the summary was computed for (A|B)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.canonical == "" {
		fs.Usage()
		return o, errors.New("-canonical is required")
	}
	if (o.year != 0) != (o.station != "") {
		return o, errors.New("-year and -station must be given together")
	}
	if o.station != "" && o.summary == "" {
		return o, errors.New("-year and -station need -summary")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "=== Rain Data Integrity Validation ===")
	fmt.Fprintln(stdout)

	canonical, err := os.ReadFile(o.canonical)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load canonical dataset: %v\n", err)
		return 1
	}

	phases := []*integrity.Phase{integrity.CheckCanonical(bytes.NewReader(canonical))}

	if o.summary != "" {
		summary, err := os.ReadFile(o.summary)
		if err != nil {
			fmt.Fprintf(stderr, "FATAL: load summary: %v\n", err)
			return 1
		}
		phases = append(phases, integrity.CheckSummary(bytes.NewReader(summary)))

		if o.station != "" {
			station, err := domain.ParseStation(o.station)
			if err != nil {
				fmt.Fprintf(stderr, "FATAL: %v\n", err)
				return 1
			}
			sel := domain.Selection{Year: o.year, Station: station}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			agg := aggregator.New(logger, observability.NewMetrics())
			phases = append(phases, integrity.CheckRecompute(bytes.NewReader(canonical), summary, sel, agg))
		}
	}

	return report(stdout, phases)
}

func report(w io.Writer, phases []*integrity.Phase) int {
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.Passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.Errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.Name, status)
	}

	fmt.Fprintln(w)
	for _, p := range phases {
		fmt.Fprintf(w, "%s: %d rows\n", p.Name, p.Rows)
	}

	for _, p := range phases {
		if p.Passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.Name)
		for i, e := range p.Errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}
