package testsupport

import (
	"path/filepath"
	"testing"

	"listenrate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to the silent player and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StimuliDir = filepath.Join(base, "stimuli")
	cfgVal.Paths.ResultsDir = filepath.Join(base, "results")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ArchivePath = filepath.Join(base, "archive", "archive.db")
	cfgVal.Audio.Player = config.SilentPlayer
	cfgVal.Audio.PlayerArgs = nil

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPoolSize overrides the number of stimuli in the battery.
func WithPoolSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Session.PoolSize = n
	}
}

// WithStimuli writes a short tone for every index in 1..pool size using the
// configured pattern.
func WithStimuli() ConfigOption {
	return func(b *configBuilder) {
		for i := 1; i <= b.cfg.Session.PoolSize; i++ {
			WriteTone(b.t, StimulusPath(b.cfg, i), 20)
		}
	}
}

// WithXLSX enables the spreadsheet export.
func WithXLSX() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.XLSX = true
	}
}

// WithNtfyTopic points operator alerts at url.
func WithNtfyTopic(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = url
	}
}
