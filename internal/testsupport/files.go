package testsupport

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"listenrate/internal/audio"
	"listenrate/internal/config"
)

// StimulusPath returns where the default resolver looks for index.
func StimulusPath(cfg *config.Config, index int) string {
	return filepath.Join(cfg.Paths.StimuliDir, fmt.Sprintf(cfg.Session.StimulusPattern, index))
}

// WriteTone writes a mono 440 Hz, 8 kHz WAVE file lasting ms milliseconds.
func WriteTone(t testing.TB, path string, ms int) {
	t.Helper()

	if ms <= 0 {
		ms = 1
	}
	const rate = 8000
	clip := &audio.Clip{SampleRate: rate, Channels: 1, Samples: make([]float32, rate*ms/1000)}
	for i := range clip.Samples {
		clip.Samples[i] = float32(0.25 * math.Sin(2*math.Pi*440*float64(i)/rate))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := audio.EncodeWAV(f, clip); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
