package config

import "fmt"

var validAssumeChoices = map[string]struct{}{
	"":       {},
	"yes":    {},
	"no":     {},
	"larger": {},
	"older":  {},
	"newer":  {},
}

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, ok := validAssumeChoices[c.Conflict.Assume]; !ok {
		return fmt.Errorf("conflict.assume: unsupported value %q (use yes, no, larger, older, or newer)", c.Conflict.Assume)
	}
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}
