// Package config handles configuration loading and management for clueassert.
//
// It provides functionality for:
//   - Loading configuration from .clueassert.yaml, .clueassert.yml or .clueassert.json
//   - Default configuration values
//   - Merging file settings with command line overrides
package config
