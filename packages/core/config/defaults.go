package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		NoColor:    BoolPtr(false),
		Verbose:    BoolPtr(false),
		ShowPassed: BoolPtr(false),
		Output:     "console",
		OutputFile: "",
		HistoryDB:  "",
		LogLevel:   "warn",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetShowPassed() == defaults.GetShowPassed() &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.HistoryDB == defaults.HistoryDB &&
		c.LogLevel == defaults.LogLevel
}
