package preflight

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"listenrate/internal/config"
	"listenrate/internal/deps"
	"listenrate/internal/stimulus"
)

// Access selects the permissions CheckDirectoryAccess requires.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// maxListedMissing caps how many missing indices a stimulus check prints.
const maxListedMissing = 10

// CheckDirectoryAccess verifies that the directory exists and grants the
// requested access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if access == ReadWrite {
		mode, label = unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckPlayer verifies the playback binary resolves, unless the timed player
// is configured.
func CheckPlayer(cfg *config.Config) Result {
	const name = "Audio player"
	if cfg.UsesSilentPlayer() {
		return Result{Name: name, Passed: true, Detail: "silent (timed playback, no audio output)"}
	}
	status := deps.Check(deps.Requirement{
		Name:        name,
		Command:     cfg.Audio.Player,
		Description: "Required for stimulus playback",
	})
	if !status.Available {
		return Result{Name: name, Detail: status.Detail}
	}
	return Result{Name: name, Passed: true, Detail: status.Path}
}

// CheckStimuli verifies that every index in the pool maps to an existing file.
// Decoding is left to the session; a broken file costs one trial, not the run.
func CheckStimuli(ctx context.Context, cfg *config.Config) Result {
	const name = "Stimulus pool"
	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	resolver, err := stimulus.NewFileResolver(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("manifest: %v", err)}
	}
	missing, err := resolver.Missing(cfg.Session.PoolSize)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	pool := cfg.Session.PoolSize
	if len(missing) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d of %d present", pool, pool)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("%d of %d missing (%s)", len(missing), pool, formatIndices(missing))}
}

func formatIndices(indices []int) string {
	shown := indices
	if len(shown) > maxListedMissing {
		shown = shown[:maxListedMissing]
	}
	parts := make([]string, len(shown))
	for i, idx := range shown {
		parts[i] = strconv.Itoa(idx)
	}
	out := strings.Join(parts, ", ")
	if len(indices) > len(shown) {
		out += fmt.Sprintf(", +%d more", len(indices)-len(shown))
	}
	return out
}
