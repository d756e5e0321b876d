// Package capture is the front-end for writing assertions in Go tests.
//
// It recovers the text of the checked expression and of every clue from the
// caller's source file, records the call site, and finalizes the assertion:
//
//	a := capture.That(len(users) > 0, users)
//	capture.Equal(got.ID, want.ID)
//	capture.Check(t, capture.DeepEqual(got, want))
//
// When the source file cannot be read (for example in a binary built on a
// different machine) names fall back to "condition", "a == b" and clue labels
// to "clue[0]", "clue[1]", ...
package capture
