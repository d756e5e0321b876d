package metrics

import (
	"fmt"
	"io"
	"strings"
)

// PrometheusExporter writes metrics in the Prometheus text exposition format,
// suitable for the node_exporter textfile collector
type PrometheusExporter struct {
	writer io.Writer
	closer io.Closer
}

// NewPrometheusExporter creates an exporter writing to w. When w is also an
// io.Closer it is closed by Close.
func NewPrometheusExporter(w io.Writer) *PrometheusExporter {
	p := &PrometheusExporter{writer: w}
	if c, ok := w.(io.Closer); ok {
		p.closer = c
	}
	return p
}

// Export writes metrics
func (p *PrometheusExporter) Export(metrics *AggregateMetrics) error {
	var sb strings.Builder
	writeMetrics(&sb, metrics)
	_, err := io.WriteString(p.writer, sb.String())
	return err
}

func writeMetrics(w io.Writer, m *AggregateMetrics) {
	fmt.Fprintf(w, "# HELP clueassert_reports Number of reports rendered\n")
	fmt.Fprintf(w, "# TYPE clueassert_reports gauge\n")
	fmt.Fprintf(w, "clueassert_reports %d\n", m.Reports)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "# HELP clueassert_assertions Assertions by outcome\n")
	fmt.Fprintf(w, "# TYPE clueassert_assertions gauge\n")
	fmt.Fprintf(w, "clueassert_assertions{outcome=\"passed\"} %d\n", m.Summary.Passed)
	fmt.Fprintf(w, "clueassert_assertions{outcome=\"failed\"} %d\n", m.Summary.Failed)
	fmt.Fprintf(w, "clueassert_assertions{outcome=\"errored\"} %d\n", m.Summary.Errored)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "# HELP clueassert_render_duration_ms Time spent rendering in milliseconds\n")
	fmt.Fprintf(w, "# TYPE clueassert_render_duration_ms gauge\n")
	fmt.Fprintf(w, "clueassert_render_duration_ms %.2f\n", m.DurationMs)

	if len(m.ByTest) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "# HELP clueassert_test_assertions Assertions per test by outcome\n")
	fmt.Fprintf(w, "# TYPE clueassert_test_assertions gauge\n")
	for _, ta := range m.ByTest {
		labels := fmt.Sprintf("report=\"%s\",test=\"%s\"", sanitizeLabel(ta.Report), sanitizeLabel(ta.Test))
		fmt.Fprintf(w, "clueassert_test_assertions{%s,outcome=\"passed\"} %d\n", labels, ta.Summary.Passed)
		fmt.Fprintf(w, "clueassert_test_assertions{%s,outcome=\"failed\"} %d\n", labels, ta.Summary.Failed)
		fmt.Fprintf(w, "clueassert_test_assertions{%s,outcome=\"errored\"} %d\n", labels, ta.Summary.Errored)
	}
}

// sanitizeLabel makes a string safe for use as a Prometheus label value
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// Close closes the underlying writer if it is closable
func (p *PrometheusExporter) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
