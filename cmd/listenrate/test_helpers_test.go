package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"listenrate/internal/config"
	"listenrate/internal/testsupport"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitCount blocks until substr occurs at least n times or the deadline passes.
func (b *syncBuffer) waitCount(substr string, n int) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Count(b.String(), substr) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("LISTENRATE_STIMULI_DIR", "")
	t.Setenv("LISTENRATE_RESULTS_DIR", "")
	t.Chdir(base)

	cfg := testsupport.NewConfig(t, opts...)
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(base, "listenrate.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, error) {
	t.Helper()
	out := &syncBuffer{}
	return runCLIWithOutput(t, args, configPath, stdin, out)
}

func runCLIWithOutput(t *testing.T, args []string, configPath string, stdin io.Reader, out *syncBuffer) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	fullArgs := append([]string{}, args...)
	if configPath != "" {
		fullArgs = append(fullArgs, "--config", configPath)
	}
	cmd.SetArgs(fullArgs)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.SetIn(stdin)
	cmd.SetOut(out)
	cmd.SetErr(out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}
