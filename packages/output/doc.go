// Package output provides formatters for displaying assertion reports.
//
// Supported output formats:
//   - Console: the assertion renderer's text, colored when the terminal allows
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - HTML: A standalone HTML page
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
package output
