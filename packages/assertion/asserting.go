package assertion

// Asserting accumulates the parts of an assertion that are known before the
// checked expression is evaluated. It is single use: IsTrue or Errored
// consumes it, and any further call panics with a *MisuseError.
type Asserting struct {
	name     string
	at       *Location
	clues    []Clue
	consumed bool
}

// That starts a builder for the expression whose source text is name.
func That(name string) *Asserting {
	return &Asserting{name: name}
}

// At records the call site. Calling it again replaces the previous location.
func (b *Asserting) At(file string, line uint32) *Asserting {
	b.check()
	b.at = &Location{File: file, Line: line}
	return b
}

// WithClue appends "<label> = <value>" to the clue list.
func (b *Asserting) WithClue(value any, label string) *Asserting {
	b.check()
	b.clues = append(b.clues, NewClue(value, label))
	return b
}

// IsTrue finalizes the builder as Passed when truth holds and Failed otherwise.
func (b *Asserting) IsTrue(truth bool) *Assertion {
	if truth {
		return b.finish(Pass())
	}
	return b.finish(Fail())
}

// Errored finalizes the builder for a check that could not produce a truth
// value because err occurred.
func (b *Asserting) Errored(err error) *Assertion {
	return b.finish(ErroredWith(err))
}

func (b *Asserting) finish(v Value) *Assertion {
	b.check()
	if b.name == "" {
		panic(&MisuseError{Reason: "finalized without a name"})
	}
	b.consumed = true

	a := &Assertion{
		name:  b.name,
		at:    b.at,
		value: v,
		clues: b.clues,
	}
	b.at = nil
	b.clues = nil
	return a
}

func (b *Asserting) check() {
	if b.consumed {
		panic(&MisuseError{Reason: "builder used after it was finalized"})
	}
}
