package audio

import (
	"context"
	"sync"
	"time"

	"listenrate/internal/services"
)

// TimedPlayer simulates playback: Done fires after the clip duration.
type TimedPlayer struct {
	// Scale shortens or stretches the wait; zero means real time.
	Scale float64
}

// NewTimedPlayer returns a real-time silent player.
func NewTimedPlayer() *TimedPlayer {
	return &TimedPlayer{}
}

// Start schedules completion after the clip duration.
func (p *TimedPlayer) Start(_ context.Context, clip *Clip) (Playback, error) {
	if clip == nil || clip.SampleRate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "start", "clip has no playable audio", nil)
	}
	wait := clip.Duration()
	if p.Scale > 0 {
		wait = time.Duration(float64(wait) * p.Scale)
	}
	pb := &timedPlayback{done: make(chan struct{})}
	pb.timer = time.AfterFunc(wait, pb.finish)
	return pb, nil
}

type timedPlayback struct {
	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
	ended   bool
}

func (pb *timedPlayback) finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.stopped || pb.ended {
		return
	}
	pb.ended = true
	close(pb.done)
}

func (pb *timedPlayback) Done() <-chan struct{} { return pb.done }

func (pb *timedPlayback) Err() error { return nil }

func (pb *timedPlayback) Stop() error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.ended {
		return nil
	}
	pb.stopped = true
	pb.timer.Stop()
	return nil
}
