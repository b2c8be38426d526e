package session

import (
	"context"
	"fmt"
	"sync"

	"listenrate/internal/audio"
	"listenrate/internal/results"
	"listenrate/internal/services"
	"listenrate/internal/trial"
)

type fakeResolver struct {
	missing map[int]bool
}

func (r fakeResolver) Resolve(ctx context.Context, index int) (*audio.Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.missing[index] {
		return nil, services.Wrap(services.ErrNotFound, "stimulus", "resolve", fmt.Sprintf("%d.wav", index), nil)
	}
	return &audio.Clip{SampleRate: 8000, Channels: 1, Samples: make([]float32, 8)}, nil
}

// instantPlayer completes every playback as soon as it starts.
type instantPlayer struct{}

type finishedPlayback struct{ done chan struct{} }

func (instantPlayer) Start(context.Context, *audio.Clip) (audio.Playback, error) {
	done := make(chan struct{})
	close(done)
	return finishedPlayback{done: done}, nil
}

func (p finishedPlayback) Done() <-chan struct{} { return p.done }
func (finishedPlayback) Err() error              { return nil }
func (finishedPlayback) Stop() error             { return nil }

// participant answers every trial: play, wait for the scales, rate all, submit.
type participant struct {
	mu     sync.Mutex
	opened []trial.Info
	// dismiss makes debug trials close without submitting.
	dismiss bool
	panicOn int
}

func (p *participant) Open(_ context.Context, info trial.Info) (trial.Surface, error) {
	if p.panicOn != 0 && info.SetNo == p.panicOn {
		panic("surface exploded")
	}
	p.mu.Lock()
	p.opened = append(p.opened, info)
	p.mu.Unlock()

	s := &scriptedSurface{
		events: make(chan trial.Event),
		views:  make(chan trial.View, 64),
		closed: make(chan struct{}),
	}
	go s.drive(info.Stimulus, p.dismiss)
	return s, nil
}

func (p *participant) infos() []trial.Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]trial.Info(nil), p.opened...)
}

type scriptedSurface struct {
	events chan trial.Event
	views  chan trial.View
	closed chan struct{}
	once   sync.Once
}

func (s *scriptedSurface) Events() <-chan trial.Event { return s.events }

func (s *scriptedSurface) Render(v trial.View) {
	select {
	case s.views <- v:
	default:
	}
}

func (s *scriptedSurface) ShowMessage(trial.Message) {}

func (s *scriptedSurface) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *scriptedSurface) send(ev trial.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.closed:
		return false
	}
}

func (s *scriptedSurface) drive(stimulus int, dismiss bool) {
	if dismiss {
		s.send(trial.Event{Kind: trial.EventDismiss})
		return
	}
	if !s.send(trial.Event{Kind: trial.EventPlay}) {
		return
	}
	if !s.waitForScales() {
		return
	}
	for i := range trial.ScaleCount {
		// Encode the stimulus in the first rating so rows can be matched.
		pos := float64(stimulus*10+i) / 100
		if !s.send(trial.Event{Kind: trial.EventRate, Scale: i, Position: pos}) {
			return
		}
	}
	s.send(trial.Event{Kind: trial.EventSubmit})
}

func (s *scriptedSurface) waitForScales() bool {
	for {
		select {
		case v := <-s.views:
			if v.State == trial.StateAwaitingResponses {
				return true
			}
		case <-s.closed:
			return false
		}
	}
}

type failingSaver struct{ err error }

func (f failingSaver) Save(context.Context, *results.Table) (results.Paths, error) {
	return results.Paths{}, f.err
}

type recordingArchiver struct {
	tables []*results.Table
	debug  []bool
}

func (a *recordingArchiver) RecordSession(_ context.Context, table *results.Table, debug bool, _ results.Paths) error {
	a.tables = append(a.tables, table)
	a.debug = append(a.debug, debug)
	return nil
}
