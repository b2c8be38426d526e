package stimulus

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry names the file for one stimulus index.
type Entry struct {
	Index int    `yaml:"index"`
	File  string `yaml:"file"`
	Label string `yaml:"label,omitempty"`
}

// Manifest lists the stimulus pool explicitly.
type Manifest struct {
	Stimuli []Entry `yaml:"stimuli"`

	byIndex map[int]Entry
}

// LoadManifest parses and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.index(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) index() error {
	m.byIndex = make(map[int]Entry, len(m.Stimuli))
	for _, e := range m.Stimuli {
		if e.Index <= 0 {
			return fmt.Errorf("stimulus index %d must be positive", e.Index)
		}
		if strings.TrimSpace(e.File) == "" {
			return fmt.Errorf("stimulus %d has no file", e.Index)
		}
		if _, dup := m.byIndex[e.Index]; dup {
			return fmt.Errorf("stimulus %d listed twice", e.Index)
		}
		e.File = strings.TrimSpace(e.File)
		m.byIndex[e.Index] = e
	}
	return nil
}

// Lookup returns the entry for index.
func (m *Manifest) Lookup(index int) (Entry, bool) {
	e, ok := m.byIndex[index]
	return e, ok
}
