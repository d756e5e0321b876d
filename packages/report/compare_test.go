package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWith(tests ...Test) *Document {
	return &Document{ID: "id", Name: "r", Tests: tests}
}

func TestCompare(t *testing.T) {
	oldDoc := docWith(Test{Name: "login", Assertions: []Assertion{
		{Name: "status ok", Outcome: "passed"},
		{Name: "token set", Outcome: "failed"},
		{Name: "retry", Outcome: "passed"},
		{Name: "retry", Outcome: "passed"},
		{Name: "legacy", Outcome: "passed"},
	}})
	newDoc := docWith(Test{Name: "login", Assertions: []Assertion{
		{Name: "status ok", Outcome: "errored"},
		{Name: "token set", Outcome: "passed"},
		{Name: "retry", Outcome: "passed"},
		{Name: "retry", Outcome: "failed"},
		{Name: "audit", Outcome: "passed"},
	}})

	d := Compare(oldDoc, newDoc)
	require.Len(t, d.Comparisons, 6)

	assert.Equal(t, Comparison{Test: "login", Name: "status ok", Change: Regressed, OldOutcome: "passed", NewOutcome: "errored"}, d.Comparisons[0])
	assert.Equal(t, Fixed, d.Comparisons[1].Change)
	assert.Equal(t, Unchanged, d.Comparisons[2].Change)
	assert.Equal(t, "retry #2", d.Comparisons[3].Name)
	assert.Equal(t, Regressed, d.Comparisons[3].Change)
	assert.Equal(t, Added, d.Comparisons[4].Change)
	assert.Equal(t, Comparison{Test: "login", Name: "legacy", Change: Removed, OldOutcome: "passed"}, d.Comparisons[5])

	assert.Equal(t, map[Change]int{Regressed: 2, Fixed: 1, Unchanged: 1, Added: 1, Removed: 1}, d.Counts)
	assert.Len(t, d.Regressions(), 2)
}

func TestCompare_SameTestNameDifferentSuites(t *testing.T) {
	oldDoc := docWith(Test{Name: "a", Assertions: []Assertion{{Name: "x", Outcome: "passed"}}})
	newDoc := docWith(Test{Name: "b", Assertions: []Assertion{{Name: "x", Outcome: "passed"}}})

	d := Compare(oldDoc, newDoc)
	assert.Equal(t, 1, d.Counts[Added])
	assert.Equal(t, 1, d.Counts[Removed])
	assert.Empty(t, d.Regressions())
}
