package report

import "fmt"

// Change classifies how an assertion moved between two reports.
type Change string

const (
	Fixed     Change = "fixed"
	Regressed Change = "regressed"
	Unchanged Change = "unchanged"
	Added     Change = "added"
	Removed   Change = "removed"
)

// Comparison is one assertion matched across two reports. Outcomes are empty
// on the side where the assertion is missing.
type Comparison struct {
	Test       string `json:"test"`
	Name       string `json:"name"`
	Change     Change `json:"change"`
	OldOutcome string `json:"oldOutcome,omitempty"`
	NewOutcome string `json:"newOutcome,omitempty"`
}

// Diff is the result of Compare.
type Diff struct {
	Comparisons []Comparison   `json:"comparisons"`
	Counts      map[Change]int `json:"counts"`
}

// Regressions returns the comparisons whose assertion stopped passing.
func (d *Diff) Regressions() []Comparison {
	var out []Comparison
	for _, c := range d.Comparisons {
		if c.Change == Regressed {
			out = append(out, c)
		}
	}
	return out
}

type assertionKey struct {
	test, name string
	occurrence int
}

func keyed(doc *Document) ([]assertionKey, map[assertionKey]Assertion) {
	var order []assertionKey
	byKey := make(map[assertionKey]Assertion)
	for _, t := range doc.Tests {
		seen := make(map[string]int)
		for _, a := range t.Assertions {
			k := assertionKey{test: t.Name, name: a.Name, occurrence: seen[a.Name]}
			seen[a.Name]++
			order = append(order, k)
			byKey[k] = a
		}
	}
	return order, byKey
}

// Compare matches the assertions of oldDoc and newDoc by test name,
// assertion name and position among equally named assertions. The result
// lists newDoc's assertions in order followed by the removed ones.
func Compare(oldDoc, newDoc *Document) *Diff {
	oldOrder, oldByKey := keyed(oldDoc)
	newOrder, newByKey := keyed(newDoc)

	d := &Diff{Comparisons: make([]Comparison, 0, len(newOrder)), Counts: make(map[Change]int)}
	add := func(c Comparison) {
		d.Comparisons = append(d.Comparisons, c)
		d.Counts[c.Change]++
	}

	for _, k := range newOrder {
		n := newByKey[k]
		c := Comparison{Test: k.test, Name: displayName(k), NewOutcome: n.Outcome}
		o, ok := oldByKey[k]
		switch {
		case !ok:
			c.Change = Added
		case o.Outcome == "passed" && n.Outcome != "passed":
			c.Change = Regressed
		case o.Outcome != "passed" && n.Outcome == "passed":
			c.Change = Fixed
		default:
			c.Change = Unchanged
		}
		if ok {
			c.OldOutcome = o.Outcome
		}
		add(c)
	}

	for _, k := range oldOrder {
		if _, ok := newByKey[k]; ok {
			continue
		}
		add(Comparison{Test: k.test, Name: displayName(k), Change: Removed, OldOutcome: oldByKey[k].Outcome})
	}

	return d
}

func displayName(k assertionKey) string {
	if k.occurrence == 0 {
		return k.name
	}
	return fmt.Sprintf("%s #%d", k.name, k.occurrence+1)
}
