package assertion

import "errors"

// ErrMisuse is the sentinel for programming errors in builder usage.
var ErrMisuse = errors.New("assertion: builder misuse")

// MisuseError is the panic value raised when an Asserting builder is
// finalized without a name or finalized twice.
type MisuseError struct {
	Reason string
}

func (e *MisuseError) Error() string {
	return ErrMisuse.Error() + ": " + e.Reason
}

func (e *MisuseError) Unwrap() error {
	return ErrMisuse
}
