package config

// LoggingConfig tunes the structured log output.
type LoggingConfig struct {
	// Level is the minimum level emitted (trace, debug, info, warn,
	// error). Unknown values fall back to info.
	Level string `json:"level"`
}

// SetDefaults applies the default level.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}
