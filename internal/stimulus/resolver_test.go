package stimulus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"listenrate/internal/services"
	"listenrate/internal/stimulus"
	"listenrate/internal/testsupport"
)

func TestResolvePatternFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPoolSize(3), testsupport.WithStimuli())
	r, err := stimulus.NewFileResolver(cfg)
	if err != nil {
		t.Fatalf("NewFileResolver: %v", err)
	}

	clip, err := r.Resolve(context.Background(), 2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if clip.SampleRate != 8000 || clip.Channels != 1 || clip.Frames() != 160 {
		t.Fatalf("unexpected clip %+v", clip)
	}
	if clip.Source != filepath.Join(cfg.Paths.StimuliDir, "2.wav") {
		t.Fatalf("unexpected source %q", clip.Source)
	}
}

func TestResolveMissingAndCorrupt(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPoolSize(2))
	testsupport.WriteTone(t, testsupport.StimulusPath(cfg, 1), 10)
	if err := os.WriteFile(testsupport.StimulusPath(cfg, 2), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	r, err := stimulus.NewFileResolver(cfg)
	if err != nil {
		t.Fatalf("NewFileResolver: %v", err)
	}

	if _, err := r.Resolve(context.Background(), 3); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), 2); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := r.Resolve(context.Background(), 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for index 0, got %v", err)
	}

	missing, err := r.Missing(3)
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 1 || missing[0] != 3 {
		t.Fatalf("expected [3] missing, got %v", missing)
	}
}

func TestResolveHonoursCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPoolSize(1), testsupport.WithStimuli())
	r, err := stimulus.NewFileResolver(cfg)
	if err != nil {
		t.Fatalf("NewFileResolver: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Resolve(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResolveViaManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPoolSize(2))
	testsupport.WriteTone(t, filepath.Join(cfg.Paths.StimuliDir, "forest.wav"), 10)
	manifest := `stimuli:
  - index: 1
    file: forest.wav
    label: Forest ambience
`
	if err := os.WriteFile(filepath.Join(cfg.Paths.StimuliDir, "pool.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	cfg.Session.Manifest = "pool.yaml"

	r, err := stimulus.NewFileResolver(cfg)
	if err != nil {
		t.Fatalf("NewFileResolver: %v", err)
	}
	clip, err := r.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(clip.Source) != "forest.wav" {
		t.Fatalf("unexpected source %q", clip.Source)
	}
	if _, err := r.Resolve(context.Background(), 2); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected index outside manifest to be not found, got %v", err)
	}
}

func TestLoadManifestRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	content := "stimuli:\n  - {index: 1, file: a.wav}\n  - {index: 1, file: b.wav}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if _, err := stimulus.LoadManifest(path); err == nil {
		t.Fatal("expected duplicate index error")
	}
}
