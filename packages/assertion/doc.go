// Package assertion models a single checked expectation.
//
// An Asserting builder accumulates the checked expression's text, its call
// site and any number of clues, then finalizes into an Assertion once the
// truth value is known:
//
//	a := assertion.That("x > 3").
//		At("main_test.go", 12).
//		WithClue(x, "x").
//		IsTrue(x > 3)
//
// An Assertion is Passed, Failed or Errored. Rendering always prints a status
// glyph and the name; the location and clues are only printed when the
// assertion did not pass:
//
//	✖ x > 3
//	  at main_test.go:12
//	  x = 2
package assertion
