package cli

import (
	"errors"

	"github.com/danc/dmarquees/internal/command"
	"github.com/danc/dmarquees/internal/display"
)

const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitSourceUnavailable = 2
	ExitNoDisplay         = 3
	ExitFramebuffer       = 4
)

// ExitCode maps a startup or runtime error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, command.ErrSourceUnavailable):
		return ExitSourceUnavailable
	case errors.Is(err, display.ErrNoDisplayFound):
		return ExitNoDisplay
	case errors.Is(err, display.ErrAllocationFailed),
		errors.Is(err, display.ErrMapFailed),
		errors.Is(err, display.ErrRegistrationFailed):
		return ExitFramebuffer
	default:
		return ExitFailure
	}
}
