package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ScaleCount is the number of semantic differential scales rated per stimulus.
const ScaleCount = 8

// Paths contains directory configuration.
type Paths struct {
	StimuliDir  string `toml:"stimuli_dir"`
	ResultsDir  string `toml:"results_dir"`
	LogDir      string `toml:"log_dir"`
	ArchivePath string `toml:"archive_path"`
}

// Session contains the battery definition.
type Session struct {
	PoolSize        int    `toml:"pool_size"`
	ResultsBaseName string `toml:"results_base_name"`
	StimulusPattern string `toml:"stimulus_pattern"`
	Manifest        string `toml:"manifest"`
	// Seed fixes the presentation order when non-zero. Rehearsals only.
	Seed uint64 `toml:"seed"`
}

// Scale is one bipolar rating scale anchored by opposite descriptors.
type Scale struct {
	Left  string `toml:"left"`
	Right string `toml:"right"`
}

// Audio contains playback configuration.
type Audio struct {
	// Player is the external playback binary, or "silent" for the timed player.
	Player     string   `toml:"player"`
	PlayerArgs []string `toml:"player_args"`
}

// Export contains optional result outputs beyond the JSON/CSV pair.
type Export struct {
	XLSX    bool `toml:"xlsx"`
	Archive bool `toml:"archive"`
}

// Notifications contains operator alert settings.
type Notifications struct {
	// NtfyTopic is the full ntfy topic URL; empty disables alerts.
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for listenrate.
//
// Configuration sections by subsystem:
//   - Paths: stimuli, results, logs, session archive
//   - Session: pool size, result naming, stimulus lookup
//   - Scales: the eight left/right anchor pairs
//   - Audio: playback binary and arguments
//   - Export: XLSX copy and SQLite archive toggles
//   - Notifications: ntfy alerts for the operator
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Session       Session       `toml:"session"`
	Scales        []Scale       `toml:"scales"`
	Audio         Audio         `toml:"audio"`
	Export        Export        `toml:"export"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A file that declares [[scales]] replaces the default set.
		cfg.Scales = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Scales) == 0 {
			cfg.Scales = defaultScales()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("listenrate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a session writes into. The
// stimuli directory is never created; a missing pool is reported by preflight.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ResultsDir, c.Paths.LogDir}
	if c.Export.Archive && strings.TrimSpace(c.Paths.ArchivePath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.ArchivePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// UsesSilentPlayer reports whether playback is simulated by duration only.
func (c *Config) UsesSilentPlayer() bool {
	return strings.EqualFold(c.Audio.Player, SilentPlayer)
}

// ScaleLabels returns the anchor pairs as parallel slices.
func (c *Config) ScaleLabels() (left, right []string) {
	left = make([]string, len(c.Scales))
	right = make([]string, len(c.Scales))
	for i, s := range c.Scales {
		left[i] = s.Left
		right[i] = s.Right
	}
	return left, right
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
