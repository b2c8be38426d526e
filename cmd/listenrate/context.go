package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"listenrate/internal/config"
	"listenrate/internal/logging"
)

type commandContext struct {
	configFlag  *string
	envFileFlag *string
	verbose     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, envFileFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		envFileFlag: envFileFlag,
		verbose:     verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := loadEnvFile(flagValue(c.envFileFlag)); err != nil {
			c.configErr = err
			return
		}
		cfg, path, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger builds the file logger; --verbose mirrors it to stderr.
func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	echo := c.verbose != nil && *c.verbose
	logger, err := logging.NewFromConfig(cfg, echo)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return logger, nil
}

// loadEnvFile applies KEY=value pairs from path without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func flagValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
