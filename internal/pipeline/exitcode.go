package pipeline

import (
	"errors"

	"github.com/couchcryptid/rain-analysis/internal/domain"
)

// Process exit statuses shared by the pipeline binaries.
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitInputOpen  = 2
	ExitEmptyInput = 3
	ExitOutputOpen = 4
	ExitParse      = 5
	ExitRuntime    = 6
)

// ErrUsage marks invalid command-line arguments.
var ErrUsage = errors.New("usage")

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	var fe *domain.FieldError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrInputOpen):
		return ExitInputOpen
	case errors.Is(err, ErrEmptyInput):
		return ExitEmptyInput
	case errors.Is(err, ErrOutputOpen):
		return ExitOutputOpen
	case errors.As(err, &fe):
		return ExitParse
	default:
		return ExitRuntime
	}
}
