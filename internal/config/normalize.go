package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSession()
	c.normalizeScales()
	c.normalizeAudio()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("LISTENRATE_STIMULI_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StimuliDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("LISTENRATE_RESULTS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ResultsDir = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.StimuliDir) == "" {
		c.Paths.StimuliDir = defaultStimuliDir
	}
	if c.Paths.StimuliDir, err = expandPath(c.Paths.StimuliDir); err != nil {
		return fmt.Errorf("paths.stimuli_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ResultsDir) == "" {
		c.Paths.ResultsDir = defaultResultsDir
	}
	if c.Paths.ResultsDir, err = expandPath(c.Paths.ResultsDir); err != nil {
		return fmt.Errorf("paths.results_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArchivePath) == "" {
		c.Paths.ArchivePath = defaultArchivePath
	}
	if c.Paths.ArchivePath, err = expandPath(c.Paths.ArchivePath); err != nil {
		return fmt.Errorf("paths.archive_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSession() {
	c.Session.ResultsBaseName = strings.TrimSpace(c.Session.ResultsBaseName)
	if c.Session.ResultsBaseName == "" {
		c.Session.ResultsBaseName = defaultResultsBaseName
	}
	c.Session.StimulusPattern = strings.TrimSpace(c.Session.StimulusPattern)
	if c.Session.StimulusPattern == "" {
		c.Session.StimulusPattern = defaultStimulusPattern
	}
	c.Session.Manifest = strings.TrimSpace(c.Session.Manifest)
}

func (c *Config) normalizeScales() {
	for i := range c.Scales {
		c.Scales[i].Left = strings.TrimSpace(c.Scales[i].Left)
		c.Scales[i].Right = strings.TrimSpace(c.Scales[i].Right)
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Player = strings.TrimSpace(c.Audio.Player)
	if c.Audio.Player == "" {
		c.Audio.Player = defaultPlayer
	}
	if strings.EqualFold(c.Audio.Player, SilentPlayer) {
		c.Audio.Player = SilentPlayer
	}
	if len(c.Audio.PlayerArgs) == 0 && c.Audio.Player == defaultPlayer {
		c.Audio.PlayerArgs = append([]string(nil), defaultPlayerArgs...)
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
