package stimulus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"listenrate/internal/audio"
	"listenrate/internal/config"
	"listenrate/internal/services"
)

// Resolver maps a stimulus index to a playable clip.
type Resolver interface {
	Resolve(ctx context.Context, index int) (*audio.Clip, error)
}

// FileResolver loads WAVE stimuli from a directory.
type FileResolver struct {
	dir      string
	pattern  string
	manifest *Manifest
}

// NewFileResolver builds a resolver from configuration, loading the manifest
// when one is configured.
func NewFileResolver(cfg *config.Config) (*FileResolver, error) {
	r := &FileResolver{
		dir:     cfg.Paths.StimuliDir,
		pattern: cfg.Session.StimulusPattern,
	}
	if cfg.Session.Manifest != "" {
		path := cfg.Session.Manifest
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.dir, path)
		}
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		r.manifest = m
	}
	return r, nil
}

// Path returns the file backing a stimulus index.
func (r *FileResolver) Path(index int) (string, error) {
	if index <= 0 {
		return "", services.Wrap(services.ErrValidation, "stimulus", "resolve", fmt.Sprintf("index %d out of range", index), nil)
	}
	name := fmt.Sprintf(r.pattern, index)
	if r.manifest != nil {
		entry, ok := r.manifest.Lookup(index)
		if !ok {
			return "", services.Wrap(services.ErrNotFound, "stimulus", "resolve", fmt.Sprintf("index %d not in manifest", index), nil)
		}
		name = entry.File
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(r.dir, name), nil
}

// Resolve loads and decodes the stimulus. Missing or undecodable files are
// reported with ErrNotFound and ErrValidation respectively.
func (r *FileResolver) Resolve(ctx context.Context, index int) (*audio.Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.Path(index)
	if err != nil {
		return nil, err
	}
	clip, err := audio.LoadWAV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "stimulus", "resolve", path, err)
		}
		if errors.Is(err, audio.ErrNotWAV) || errors.Is(err, audio.ErrUnsupportedFormat) {
			return nil, services.Wrap(services.ErrValidation, "stimulus", "decode", path, err)
		}
		return nil, services.Wrap(services.ErrTransient, "stimulus", "read", path, err)
	}
	if clip.Frames() == 0 {
		return nil, services.Wrap(services.ErrValidation, "stimulus", "decode", path+" holds no audio", nil)
	}
	return clip, nil
}

// Missing returns the indices in 1..poolSize whose files do not exist.
func (r *FileResolver) Missing(poolSize int) ([]int, error) {
	var missing []int
	for i := 1; i <= poolSize; i++ {
		path, err := r.Path(i)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				missing = append(missing, i)
				continue
			}
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, i)
				continue
			}
			return nil, fmt.Errorf("stat stimulus %d: %w", i, err)
		}
	}
	return missing, nil
}
