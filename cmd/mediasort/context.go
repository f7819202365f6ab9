package main

import (
	"path/filepath"
	"strings"
	"sync"

	"mediasort/internal/config"
)

type commandContext struct {
	configFlag     *string
	statusFileFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, statusFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:     configFlag,
		statusFileFlag: statusFileFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// statusFilePath resolves the status file location, preferring the flag over
// configuration. Relative paths resolve against the working directory.
func (c *commandContext) statusFilePath() (string, error) {
	if c.statusFileFlag != nil {
		if flagged := strings.TrimSpace(*c.statusFileFlag); flagged != "" {
			return config.ExpandPath(flagged)
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return filepath.Abs(cfg.Journal.StatusFile)
}
