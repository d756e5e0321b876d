package cmd

import "fmt"

// Exit codes for the clueassert CLI
const (
	// ExitSuccess indicates every rendered assertion passed
	ExitSuccess = 0

	// ExitAssertionFailure indicates at least one assertion failed or errored
	ExitAssertionFailure = 1

	// ExitInvalidReport indicates a report file could not be read or validated
	ExitInvalidReport = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError asks Execute to exit with Code. Err is printed when non-nil.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
