package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateScales(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateSession() error {
	if c.Session.PoolSize <= 0 {
		return errors.New("session.pool_size must be positive")
	}
	base := c.Session.ResultsBaseName
	if base != filepath.Base(base) || base == "." || base == ".." {
		return fmt.Errorf("session.results_base_name %q must be a bare file name", base)
	}
	if filepath.Ext(base) != "" {
		return fmt.Errorf("session.results_base_name %q must not carry an extension", base)
	}
	if c.Session.Manifest == "" && strings.Count(c.Session.StimulusPattern, "%d") != 1 {
		return fmt.Errorf("session.stimulus_pattern %q must contain exactly one %%d", c.Session.StimulusPattern)
	}
	return nil
}

func (c *Config) validateScales() error {
	if len(c.Scales) != ScaleCount {
		return fmt.Errorf("scales must define exactly %d anchor pairs, got %d", ScaleCount, len(c.Scales))
	}
	for i, s := range c.Scales {
		if s.Left == "" || s.Right == "" {
			return fmt.Errorf("scales[%d] needs both left and right anchors", i)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Player == SilentPlayer {
		return nil
	}
	if len(c.Audio.PlayerArgs) == 0 {
		return errors.New("audio.player_args must be set for custom players (raw s16le PCM is written to stdin)")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	u, err := url.Parse(topic)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic %q must be an http(s) URL", topic)
	}
	return nil
}
