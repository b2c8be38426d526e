package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"listenrate/internal/logging"
	"listenrate/internal/services"
)

const (
	placeholderRate     = "{rate}"
	placeholderChannels = "{channels}"
)

// ExecPlayer plays clips by piping s16le PCM into an external binary.
type ExecPlayer struct {
	binary string
	args   []string
	logger *slog.Logger
}

// NewExecPlayer constructs a player around binary. Arguments may contain the
// {rate} and {channels} placeholders.
func NewExecPlayer(binary string, args []string, logger *slog.Logger) *ExecPlayer {
	return &ExecPlayer{
		binary: strings.TrimSpace(binary),
		args:   append([]string(nil), args...),
		logger: logging.NewComponentLogger(logger, "player"),
	}
}

// Start launches the player process and returns immediately.
func (p *ExecPlayer) Start(ctx context.Context, clip *Clip) (Playback, error) {
	if p.binary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "audio", "start", "player binary not configured", nil)
	}
	if clip == nil || clip.SampleRate <= 0 || clip.Channels <= 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "start", "clip has no playable audio", nil)
	}

	cmd := exec.Command(p.binary, p.expandArgs(clip)...)
	cmd.Stdin = bytes.NewReader(clip.PCM16())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "audio", "start", p.binary, err)
	}

	pb := &execPlayback{
		cmd:    cmd,
		done:   make(chan struct{}),
		waited: make(chan struct{}),
	}
	logging.WithContext(ctx, p.logger).Debug("playback started",
		logging.String("binary", p.binary),
		logging.Int("pid", cmd.Process.Pid),
		logging.Duration("clip_duration", clip.Duration()),
	)

	go func() {
		err := cmd.Wait()
		defer close(pb.waited)

		pb.mu.Lock()
		defer pb.mu.Unlock()
		if pb.stopped {
			return
		}
		if err != nil {
			detail := strings.TrimSpace(stderr.String())
			pb.err = services.Wrap(services.ErrExternalTool, "audio", "play", detail, err)
			logging.WithContext(ctx, p.logger).Warn("playback failed", logging.Error(pb.err))
		}
		close(pb.done)
	}()
	return pb, nil
}

func (p *ExecPlayer) expandArgs(clip *Clip) []string {
	rate := strconv.Itoa(clip.SampleRate)
	channels := strconv.Itoa(clip.Channels)
	out := make([]string, len(p.args))
	for i, arg := range p.args {
		arg = strings.ReplaceAll(arg, placeholderRate, rate)
		out[i] = strings.ReplaceAll(arg, placeholderChannels, channels)
	}
	return out
}

type execPlayback struct {
	cmd    *exec.Cmd
	done   chan struct{}
	waited chan struct{}

	mu      sync.Mutex
	stopped bool
	err     error
}

func (pb *execPlayback) Done() <-chan struct{} { return pb.done }

func (pb *execPlayback) Err() error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.err
}

// Stop kills the player and waits for the process to exit.
func (pb *execPlayback) Stop() error {
	pb.mu.Lock()
	select {
	case <-pb.done:
		pb.mu.Unlock()
		return nil
	default:
	}
	if pb.stopped {
		pb.mu.Unlock()
		<-pb.waited
		return nil
	}
	pb.stopped = true
	pb.mu.Unlock()

	var killErr error
	if err := pb.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		killErr = fmt.Errorf("stop player: %w", err)
	}
	<-pb.waited
	return killErr
}
