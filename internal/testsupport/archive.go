package testsupport

import (
	"testing"

	"listenrate/internal/archive"
	"listenrate/internal/config"
)

// MustOpenArchive opens the configured session archive and registers cleanup.
func MustOpenArchive(t testing.TB, cfg *config.Config) *archive.Store {
	t.Helper()

	store, err := archive.Open(cfg)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
