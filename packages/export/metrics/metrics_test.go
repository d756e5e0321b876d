package metrics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSuites() []*suite.Test {
	login := suite.New("login")
	login.Add(assertion.That("token issued").IsTrue(true))
	login.Add(assertion.That("status ok").IsTrue(false))

	cart := suite.New(`cart "v2"`)
	cart.Add(assertion.That("total").Errored(assertion.ErrMisuse))
	return []*suite.Test{login, cart}
}

func TestCollector_Record(t *testing.T) {
	c := NewCollector()
	c.Record("b.json", sampleSuites()[1])
	c.Record("a.json", sampleSuites()...)

	agg := c.GetAggregate()
	assert.Equal(t, 2, agg.Reports)
	assert.Equal(t, suite.Summary{Total: 4, Passed: 1, Failed: 1, Errored: 2}, agg.Summary)

	require.Len(t, agg.ByTest, 3)
	assert.Equal(t, "a.json", agg.ByTest[0].Report)
	assert.Equal(t, `cart "v2"`, agg.ByTest[0].Test)
	assert.Equal(t, "login", agg.ByTest[1].Test)
	assert.Equal(t, "b.json", agg.ByTest[2].Report)
}

func TestPrometheusExporter(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(NewPrometheusExporter(&buf))
	c.Record("a.json", sampleSuites()...)
	require.NoError(t, c.Flush())
	require.NoError(t, c.Close())

	out := buf.String()
	assert.Contains(t, out, "# TYPE clueassert_assertions gauge\n")
	assert.Contains(t, out, "clueassert_reports 1\n")
	assert.Contains(t, out, `clueassert_assertions{outcome="failed"} 1`)
	assert.Contains(t, out, `clueassert_test_assertions{report="a.json",test="login",outcome="passed"} 1`)
	assert.Contains(t, out, `test="cart \"v2\"",outcome="errored"} 1`)
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	c := NewCollector(NewJSONExporter(&buf, WithJSONPretty(false)))
	c.Record("a.json", sampleSuites()...)
	require.NoError(t, c.Flush())

	var got AggregateMetrics
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1, got.Reports)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Len(t, got.ByTest, 2)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, `a\"b\\c\nd`, sanitizeLabel("a\"b\\c\nd"))
}
