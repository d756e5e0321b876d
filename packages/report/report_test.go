package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/style"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuite() *suite.Test {
	s := suite.New("numbers")
	s.Add(
		assertion.That("one == 1").At("numbers_test.go", 4).WithClue(1, "one").IsTrue(true),
		assertion.That("one == two").At("numbers_test.go", 5).WithClue(1, "one").WithClue(2, "two").IsTrue(false),
		assertion.That("parse(input)").Errored(errors.New("unexpected EOF")),
	)
	return s
}

func TestFromSuites(t *testing.T) {
	doc := FromSuites("unit", sampleSuite(), suite.New("empty"))

	_, err := uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "unit", doc.Name)
	require.Len(t, doc.Tests, 2)

	got := doc.Tests[0].Assertions
	require.Len(t, got, 3)
	assert.Equal(t, Assertion{
		Name:     "one == two",
		Location: &assertion.Location{File: "numbers_test.go", Line: 5},
		Outcome:  "failed",
		Clues:    []string{"one = 1", "two = 2"},
	}, got[1])
	assert.Equal(t, "errored", got[2].Outcome)
	assert.Equal(t, "unexpected EOF", got[2].Error)
	assert.Nil(t, got[2].Location)

	assert.NotNil(t, doc.Tests[1].Assertions)
	assert.Equal(t, suite.Summary{Total: 3, Passed: 1, Failed: 1, Errored: 1}, doc.Summary())
}

func TestDocument_RoundTripRendersTheSame(t *testing.T) {
	original := sampleSuite()

	var buf bytes.Buffer
	require.NoError(t, FromSuites("unit", original).Write(&buf))

	doc, err := Parse(buf.Bytes())
	require.NoError(t, err)
	suites, err := doc.Suites()
	require.NoError(t, err)
	require.Len(t, suites, 1)

	want := original.Assertions()
	got := suites[0].Assertions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Format(style.Plain()), got[i].Format(style.Plain()))
	}
}

func TestDocument_Suites_UnknownOutcome(t *testing.T) {
	doc := &Document{Tests: []Test{{
		Name:       "bad",
		Assertions: []Assertion{{Name: "x", Outcome: "skipped"}},
	}}}

	_, err := doc.Suites()
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestWriteFileAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	doc := FromSuites("unit", sampleSuite())
	require.NoError(t, doc.WriteFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, loaded.ID)
	assert.True(t, doc.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, doc.Tests, loaded.Tests)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{
			name:  "minimal",
			data:  `{"id":"1","name":"n","createdAt":"2024-01-02T03:04:05Z","tests":[]}`,
			valid: true,
		},
		{
			name:  "missing id",
			data:  `{"name":"n","createdAt":"2024-01-02T03:04:05Z","tests":[]}`,
			valid: false,
		},
		{
			name:  "bad outcome",
			data:  `{"id":"1","name":"n","createdAt":"2024-01-02T03:04:05Z","tests":[{"name":"t","assertions":[{"name":"a","outcome":"skipped"}]}]}`,
			valid: false,
		},
		{
			name:  "empty assertion name",
			data:  `{"id":"1","name":"n","createdAt":"2024-01-02T03:04:05Z","tests":[{"name":"t","assertions":[{"name":"","outcome":"passed"}]}]}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.data))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
			assert.ErrorIs(t, err, ErrInvalidReport)
		})
	}

	t.Run("not json", func(t *testing.T) {
		assert.ErrorIs(t, Validate([]byte("{")), ErrInvalidReport)
	})
}

func TestQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FromSuites("unit", sampleSuite()).Write(&buf))
	data := buf.Bytes()

	name, err := Query(data, "name")
	require.NoError(t, err)
	assert.Equal(t, "unit", name)

	clues, err := Query(data, "tests.0.assertions.1.clues")
	require.NoError(t, err)
	assert.JSONEq(t, `["one = 1","two = 2"]`, clues)

	_, err = Query(data, "tests.5.name")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = Query([]byte("nope"), "name")
	assert.ErrorIs(t, err, ErrInvalidReport)
}

func TestFailedNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FromSuites("unit", sampleSuite(), sampleSuite()).Write(&buf))

	assert.Equal(t, []string{"one == two", "parse(input)", "one == two", "parse(input)"}, FailedNames(buf.Bytes()))
}

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	rec := NewRecorder("integration", path)

	rec.Test("login").Add(assertion.That("ok").IsTrue(true))
	rec.Test("logout").Add(assertion.That("ok").IsTrue(false))
	require.NoError(t, rec.Flush())

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "integration", doc.Name)
	require.Len(t, doc.Tests, 2)
	assert.Equal(t, "logout", doc.Tests[1].Name)

	t.Run("empty path does not write", func(t *testing.T) {
		rec := NewRecorder("noop", "")
		rec.Test("t").Add(assertion.That("ok").IsTrue(true))
		assert.NoError(t, rec.Flush())
		entries, err := os.ReadDir(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
