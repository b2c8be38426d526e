package config

// SilentPlayer selects the timed player that simulates playback without audio output.
const SilentPlayer = "silent"

const (
	defaultConfigPath      = "~/.config/listenrate/config.toml"
	defaultStimuliDir      = "~/listenrate/stimuli"
	defaultResultsDir      = "~/listenrate/results"
	defaultLogDir          = "~/.local/share/listenrate/logs"
	defaultArchivePath     = "~/.local/share/listenrate/archive.db"
	defaultPoolSize        = 30
	defaultResultsBaseName = "results"
	defaultStimulusPattern = "%d.wav"
	defaultPlayer          = "aplay"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultNtfyTimeout     = 10
)

// {rate} and {channels} are expanded per clip by the player.
var defaultPlayerArgs = []string{"-q", "-t", "raw", "-f", "S16_LE", "-r", "{rate}", "-c", "{channels}", "-"}

func defaultScales() []Scale {
	return []Scale{
		{Left: "unpleasant", Right: "pleasant"},
		{Left: "calm", Right: "exciting"},
		{Left: "dull", Right: "bright"},
		{Left: "soft", Right: "loud"},
		{Left: "simple", Right: "complex"},
		{Left: "cold", Right: "warm"},
		{Left: "sad", Right: "happy"},
		{Left: "unfamiliar", Right: "familiar"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	args := make([]string, len(defaultPlayerArgs))
	copy(args, defaultPlayerArgs)
	return Config{
		Paths: Paths{
			StimuliDir:  defaultStimuliDir,
			ResultsDir:  defaultResultsDir,
			LogDir:      defaultLogDir,
			ArchivePath: defaultArchivePath,
		},
		Session: Session{
			PoolSize:        defaultPoolSize,
			ResultsBaseName: defaultResultsBaseName,
			StimulusPattern: defaultStimulusPattern,
		},
		Scales: defaultScales(),
		Audio: Audio{
			Player:     defaultPlayer,
			PlayerArgs: args,
		},
		Export: Export{
			Archive: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
