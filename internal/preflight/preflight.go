package preflight

import (
	"context"
	"path/filepath"

	"listenrate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Optional outputs are only checked when enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Stimuli directory", cfg.Paths.StimuliDir, ReadOnly),
		CheckStimuli(ctx, cfg),
		CheckDirectoryAccess("Results directory", cfg.Paths.ResultsDir, ReadWrite),
		CheckPlayer(cfg),
	}
	if cfg.Export.Archive {
		results = append(results, CheckDirectoryAccess("Archive directory", filepath.Dir(cfg.Paths.ArchivePath), ReadWrite))
	}
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
