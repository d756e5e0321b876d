// Package metrics exports assertion counts from rendered reports, as a
// Prometheus textfile or as JSON.
package metrics

import (
	"sort"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// TestAggregate holds the counts of one test in one report
type TestAggregate struct {
	Report  string        `json:"report"`
	Test    string        `json:"test"`
	Summary suite.Summary `json:"summary"`
}

// AggregateMetrics represents the counts of a render run
type AggregateMetrics struct {
	Reports    int              `json:"reports"`
	Summary    suite.Summary    `json:"summary"`
	DurationMs float64          `json:"duration_ms"`
	Timestamp  time.Time        `json:"timestamp"`
	ByTest     []*TestAggregate `json:"by_test"`
}

// Exporter is the interface for metrics exporters
type Exporter interface {
	// Export writes metrics to the target destination
	Export(metrics *AggregateMetrics) error

	// Close releases the destination
	Close() error
}

// Collector aggregates suites as reports are rendered
type Collector struct {
	aggregate *AggregateMetrics
	exporters []Exporter
	start     time.Time
}

// NewCollector creates a new metrics collector
func NewCollector(exporters ...Exporter) *Collector {
	return &Collector{
		aggregate: &AggregateMetrics{ByTest: make([]*TestAggregate, 0)},
		exporters: exporters,
		start:     time.Now(),
	}
}

// Record adds the suites of one report
func (c *Collector) Record(report string, tests ...*suite.Test) {
	c.aggregate.Reports++
	for _, t := range tests {
		s := t.Summary()
		c.aggregate.Summary = c.aggregate.Summary.Add(s)
		c.aggregate.ByTest = append(c.aggregate.ByTest, &TestAggregate{Report: report, Test: t.Name, Summary: s})
	}
}

// GetAggregate returns the aggregated metrics, per-test entries sorted by
// report then test name
func (c *Collector) GetAggregate() *AggregateMetrics {
	sort.SliceStable(c.aggregate.ByTest, func(i, j int) bool {
		a, b := c.aggregate.ByTest[i], c.aggregate.ByTest[j]
		if a.Report != b.Report {
			return a.Report < b.Report
		}
		return a.Test < b.Test
	})
	c.aggregate.DurationMs = float64(time.Since(c.start).Microseconds()) / 1000
	c.aggregate.Timestamp = time.Now().UTC()
	return c.aggregate
}

// Flush exports the aggregate to every exporter
func (c *Collector) Flush() error {
	agg := c.GetAggregate()
	for _, exp := range c.exporters {
		if err := exp.Export(agg); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all exporters
func (c *Collector) Close() error {
	for _, exp := range c.exporters {
		if err := exp.Close(); err != nil {
			return err
		}
	}
	return nil
}
