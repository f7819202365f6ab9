package config

import "strings"

func (c *Config) normalize() error {
	c.normalizeJournal()
	c.normalizeScan()
	c.normalizeConflict()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeJournal() {
	if strings.TrimSpace(c.Journal.StatusFile) == "" {
		c.Journal.StatusFile = defaultStatusFile
	}
}

func (c *Config) normalizeScan() {
	exts := make([]string, 0, len(c.Scan.ExtraMediaExtensions))
	for _, ext := range c.Scan.ExtraMediaExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Scan.ExtraMediaExtensions = exts

	names := make([]string, 0, len(c.Scan.ExtraSkipNames))
	for _, name := range c.Scan.ExtraSkipNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	c.Scan.ExtraSkipNames = names
}

func (c *Config) normalizeConflict() {
	c.Conflict.Assume = strings.ToLower(strings.TrimSpace(c.Conflict.Assume))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
