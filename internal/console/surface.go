package console

import (
	"context"
	"sync"

	"listenrate/internal/logging"
	"listenrate/internal/trial"
)

// Open attaches a new trial surface to the console input.
func (c *Console) Open(ctx context.Context, info trial.Info) (trial.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &surface{
		console: c,
		info:    info,
		lines:   c.attach(),
		events:  make(chan trial.Event),
		done:    make(chan struct{}),
	}
	c.write("\n")
	go s.pump()
	logging.WithContext(ctx, c.logger).Debug("trial surface opened")
	return s, nil
}

type surface struct {
	console *Console
	info    trial.Info
	lines   chan string
	events  chan trial.Event
	done    chan struct{}
	once    sync.Once
}

func (s *surface) Events() <-chan trial.Event { return s.events }

func (s *surface) Render(v trial.View) {
	s.console.write(s.console.renderView(v))
}

func (s *surface) ShowMessage(msg trial.Message) {
	s.console.Announce(msg)
}

func (s *surface) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.console.detach(s.lines)
	})
	return nil
}

// pump turns typed lines into events until the surface closes or input ends.
func (s *surface) pump() {
	defer close(s.events)
	for {
		select {
		case <-s.done:
			return
		case line, ok := <-s.lines:
			if !ok {
				return
			}
			ev, ok, reply := parseCommand(line, len(s.console.anchors))
			if reply != "" {
				if reply == helpText && s.info.Debug {
					reply += debugHelpText
				}
				s.console.write(reply + "\n")
			}
			if !ok {
				continue
			}
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}
