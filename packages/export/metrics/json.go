package metrics

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONExporter exports metrics as a JSON document
type JSONExporter struct {
	writer io.Writer
	closer io.Closer
	pretty bool
}

// JSONOption is a functional option for JSONExporter
type JSONOption func(*JSONExporter)

// WithJSONPretty enables pretty-printed JSON output
func WithJSONPretty(pretty bool) JSONOption {
	return func(j *JSONExporter) {
		j.pretty = pretty
	}
}

// NewJSONExporter creates a new JSON metrics exporter writing to w
func NewJSONExporter(w io.Writer, opts ...JSONOption) *JSONExporter {
	j := &JSONExporter{writer: w, pretty: true}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Export writes metrics
func (j *JSONExporter) Export(metrics *AggregateMetrics) error {
	enc := json.NewEncoder(j.writer)
	if j.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(metrics); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Close closes the underlying writer if it is closable
func (j *JSONExporter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
