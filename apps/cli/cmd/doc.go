// Package cmd implements the clueassert CLI commands using Cobra.
//
// Available commands:
//   - render: Print report files with a console, json, tap, junit or html formatter
//   - validate: Check report files against the report schema
//   - list: Show the tests (or only the failing assertions) in report files
//   - query: Extract a value from a report with a gjson path
//   - history: List or re-render runs saved in the history database
//   - init: Write a default .clueassert.yaml
//   - version: Show clueassert version information
package cmd
