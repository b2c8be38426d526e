package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"listenrate/internal/audio"
	"listenrate/internal/logging"
)

var (
	// ErrDismissed reports a debug-mode trial closed without a valid submission.
	ErrDismissed = errors.New("trial dismissed without submission")
	// ErrSurfaceClosed reports that participant input ended before completion.
	ErrSurfaceClosed = errors.New("participant input closed")
)

// Options identifies the trial and selects debug behaviour.
type Options struct {
	SetNo    int
	Total    int
	Stimulus int
	Debug    bool
}

// Controller owns one trial. It is not safe for concurrent use; Run drives it
// from a single goroutine.
type Controller struct {
	opts    Options
	clip    *audio.Clip
	surface Surface
	player  audio.Player
	logger  *slog.Logger

	state    State
	record   Record
	playback audio.Playback
}

// NewController prepares a trial in its initial state.
func NewController(opts Options, clip *audio.Clip, surface Surface, player audio.Player, logger *slog.Logger) *Controller {
	return &Controller{
		opts:    opts,
		clip:    clip,
		surface: surface,
		player:  player,
		logger:  logging.NewComponentLogger(logger, "trial"),
		state:   StateAwaitingFirstListen,
		record:  Record{StimulusIndex: opts.Stimulus},
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Record returns a copy of the record as it stands.
func (c *Controller) Record() Record { return c.record }

// Run blocks until the participant submits a complete response, the surface
// closes, or ctx is cancelled. Any active playback is stopped and the surface
// torn down before Run returns.
func (c *Controller) Run(ctx context.Context) (Record, error) {
	logger := logging.WithContext(ctx, c.logger)
	defer c.teardown(logger)

	c.render()
	events := c.surface.Events()
	for {
		var ended <-chan struct{}
		if c.playback != nil {
			ended = c.playback.Done()
		}
		select {
		case <-ctx.Done():
			return c.record, ctx.Err()
		case <-ended:
			c.playbackEnded(logger)
		case ev, ok := <-events:
			if !ok {
				return c.record, ErrSurfaceClosed
			}
			done, err := c.handle(ctx, logger, ev)
			if err != nil {
				return c.record, err
			}
			if done {
				return c.record, nil
			}
		}
	}
}

func (c *Controller) handle(ctx context.Context, logger *slog.Logger, ev Event) (bool, error) {
	logger.Debug("trial event", logging.String(logging.FieldEventType, ev.Kind.String()), logging.String("state", c.state.String()))
	switch ev.Kind {
	case EventPlay:
		return false, c.play(ctx, logger)
	case EventStop:
		c.stop(logger)
	case EventRate:
		c.rate(logger, ev.Scale, ev.Position)
	case EventSubmit:
		return c.submit(logger), nil
	case EventDismiss:
		if c.opts.Debug {
			logger.Info("trial dismissed by operator", logging.Int("answered", c.record.Ratings.Answered()))
			return false, ErrDismissed
		}
		c.say(MessageError, TextSubmitToContinue)
	}
	return false, nil
}

// play restarts playback from the beginning; an active stream is stopped
// first so streams never overlap.
func (c *Controller) play(ctx context.Context, logger *slog.Logger) error {
	if c.state == StateComplete {
		return nil
	}
	if c.playback != nil {
		c.stopPlayback(logger)
	}
	pb, err := c.player.Start(ctx, c.clip)
	if err != nil {
		return fmt.Errorf("start playback: %w", err)
	}
	c.playback = pb
	logger.Info("playback started", logging.Bool("listened", c.record.Listened))
	c.render()
	return nil
}

func (c *Controller) stop(logger *slog.Logger) {
	if c.state == StateAwaitingFirstListen && !c.opts.Debug {
		logger.Info("stop refused before first full listen")
		c.say(MessageError, TextListenBeforeStop)
		return
	}
	c.stopPlayback(logger)
	c.render()
}

func (c *Controller) playbackEnded(logger *slog.Logger) {
	pb := c.playback
	c.playback = nil
	if err := pb.Err(); err != nil {
		logger.Warn("playback ended with error", logging.Error(err))
		c.say(MessageError, TextPlaybackFailed)
		c.render()
		return
	}
	c.record.Listened = true
	if c.state == StateAwaitingFirstListen {
		c.state = StateAwaitingResponses
	}
	logger.Info("playback completed", logging.String("state", c.state.String()))
	c.render()
}

func (c *Controller) rate(logger *slog.Logger, scale int, position float64) {
	if !c.scalesVisible() {
		logger.Debug("rating ignored while scales hidden", logging.Int("scale", scale))
		return
	}
	if scale < 0 || scale >= ScaleCount {
		logger.Debug("rating ignored for unknown scale", logging.Int("scale", scale))
		return
	}
	rating, ok := RatingFromSlider(position)
	if !ok {
		return
	}
	c.record.Ratings[scale] = rating
	c.render()
}

// submit applies the submission gate: a full listen first, then all answers.
func (c *Controller) submit(logger *slog.Logger) bool {
	if !c.record.Listened {
		c.say(MessageError, TextListenBeforeSubmit)
		return false
	}
	if !c.record.Ratings.Complete() {
		logger.Info("submit refused", logging.Int("answered", c.record.Ratings.Answered()))
		c.say(MessageError, TextAnswerAll)
		return false
	}
	c.stopPlayback(logger)
	c.state = StateComplete
	logger.Info("trial submitted")
	return true
}

func (c *Controller) stopPlayback(logger *slog.Logger) {
	if c.playback == nil {
		return
	}
	if err := c.playback.Stop(); err != nil {
		logger.Warn("stop playback failed", logging.Error(err))
	}
	c.playback = nil
}

func (c *Controller) teardown(logger *slog.Logger) {
	c.stopPlayback(logger)
	if err := c.surface.Close(); err != nil {
		logger.Warn("close trial surface failed", logging.Error(err))
	}
}

func (c *Controller) scalesVisible() bool {
	return c.state == StateAwaitingResponses || c.opts.Debug
}

func (c *Controller) view() View {
	open := c.state != StateComplete
	v := View{
		SetNo:         c.opts.SetNo,
		Total:         c.opts.Total,
		Debug:         c.opts.Debug,
		State:         c.state,
		PlayEnabled:   open,
		PlayActive:    c.playback != nil,
		StopEnabled:   open && (c.state == StateAwaitingResponses || c.opts.Debug),
		ScalesVisible: open && c.scalesVisible(),
		SubmitEnabled: open && c.scalesVisible(),
		Ratings:       c.record.Ratings,
	}
	if c.opts.Debug {
		v.Stimulus = c.opts.Stimulus
	}
	return v
}

func (c *Controller) render() {
	c.surface.Render(c.view())
}

func (c *Controller) say(kind MessageKind, text string) {
	c.surface.ShowMessage(Message{Kind: kind, Text: text})
}
