package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"listenrate/internal/audio"
	"listenrate/internal/logging"
	"listenrate/internal/results"
	"listenrate/internal/services"
	"listenrate/internal/stimulus"
	"listenrate/internal/trial"
)

// Saver persists the finished table.
type Saver interface {
	Save(ctx context.Context, table *results.Table) (results.Paths, error)
}

// Archiver records the finished session for operator follow-up.
type Archiver interface {
	RecordSession(ctx context.Context, table *results.Table, debug bool, paths results.Paths) error
}

// Options controls one session.
type Options struct {
	PoolSize int
	Debug    bool
	// Seed makes the presentation order reproducible when non-zero.
	Seed uint64
	// Order replaces the random draw when set; it must be a permutation of
	// 1..PoolSize.
	Order []int
}

// Summary describes a finished session.
type Summary struct {
	SessionID string
	Order     []int
	Table     *results.Table
	Paths     results.Paths
	Status    results.Status
	Failures  int
	// SaveErr is set when some output could not be written.
	SaveErr error
	// ArchiveErr is set when the archive rejected the session.
	ArchiveErr error
}

// Saved reports whether at least one results file was written.
func (s *Summary) Saved() bool {
	return s.Paths.Any()
}

// Message returns the participant-facing status line.
func (s *Summary) Message() string {
	if !s.Saved() {
		return results.MessageNotSaved
	}
	return s.Status.Message()
}

// Runner sequences trials for a session.
type Runner struct {
	resolver  stimulus.Resolver
	presenter trial.Presenter
	player    audio.Player
	saver     Saver
	archiver  Archiver
	base      *slog.Logger
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithArchiver records every finished session in a.
func WithArchiver(a Archiver) RunnerOption {
	return func(r *Runner) { r.archiver = a }
}

// WithClock replaces the wall clock used for elapsed time and timestamps.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner wires the collaborators a session needs.
func NewRunner(resolver stimulus.Resolver, presenter trial.Presenter, player audio.Player, saver Saver, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		resolver:  resolver,
		presenter: presenter,
		player:    player,
		saver:     saver,
		base:      logger,
		logger:    logging.NewComponentLogger(logger, "session"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every trial in presentation order and persists the table.
// Once the options are accepted Run always returns a summary and a nil error:
// trial failures become null rows and write failures are reported through
// Summary.SaveErr.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.PoolSize <= 0 {
		return nil, services.Wrap(services.ErrValidation, "session", "run", fmt.Sprintf("pool size must be positive, got %d", opts.PoolSize), nil)
	}
	order := opts.Order
	if order != nil {
		if err := validateOrder(order, opts.PoolSize); err != nil {
			return nil, services.Wrap(services.ErrValidation, "session", "run", "invalid presentation order", err)
		}
	} else {
		var rng *rand.Rand
		if opts.Seed != 0 {
			rng = SeededRand(opts.Seed)
		}
		order = PresentationOrder(opts.PoolSize, rng)
	}

	id := r.newID()
	ctx = services.WithSessionID(ctx, id)
	logger := logging.WithContext(ctx, r.logger)
	table := &results.Table{SessionID: id, StartedAt: r.now(), Order: order}
	logger.Info("session started",
		logging.Int("pool_size", opts.PoolSize),
		logging.Bool("debug", opts.Debug),
		logging.Any("order", order),
	)

	failures := 0
	for i, stim := range order {
		outcome := r.runTrial(ctx, i+1, stim, len(order), opts.Debug)
		if outcome.Failed() {
			failures++
		}
		table.Append(outcome.Row())
	}
	table.FinishedAt = r.now()

	summary := &Summary{
		SessionID: id,
		Order:     order,
		Table:     table,
		Status:    table.Status(),
		Failures:  failures,
	}

	// The table is saved even when the session was cancelled.
	persistCtx := context.WithoutCancel(ctx)
	paths, err := r.saver.Save(persistCtx, table)
	summary.Paths = paths
	if err != nil {
		summary.SaveErr = err
		if paths.Any() {
			logger.Warn("results saved with write errors", logging.Error(err))
		} else {
			logger.Error("results could not be saved", logging.Error(err))
		}
	}

	if r.archiver != nil {
		if err := r.archiver.RecordSession(persistCtx, table, opts.Debug, paths); err != nil {
			summary.ArchiveErr = err
			logger.Warn("archive session failed", logging.Error(err))
		}
	}

	logger.Info("session finished",
		logging.Int("failures", failures),
		logging.Bool("all_listened", summary.Status.AllListened),
		logging.Bool("no_missing", summary.Status.NoMissing),
		logging.String("results", paths.Base),
	)
	return summary, nil
}

// runTrial runs one position and converts every failure, including a panic,
// into a failed Outcome.
func (r *Runner) runTrial(ctx context.Context, setNo, stim, total int, debug bool) (outcome Outcome) {
	ctx = services.WithTrial(ctx, setNo, stim)
	logger := logging.WithContext(ctx, r.logger)
	outcome = Outcome{SetNo: setNo, Stimulus: stim}
	start := r.now()

	defer func() {
		if rec := recover(); rec != nil {
			outcome.Err = fmt.Errorf("trial panicked: %v", rec)
		}
		if outcome.Err != nil {
			logger.Warn("trial failed",
				logging.String("kind", services.Kind(outcome.Err)),
				logging.Error(outcome.Err),
			)
		}
	}()

	rec, err := r.presentTrial(ctx, setNo, stim, total, debug)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	rec.StimulusIndex = stim
	rec.Elapsed = r.now().Sub(start)
	outcome.Record = rec
	logger.Info("trial completed", logging.Duration("elapsed", rec.Elapsed))
	return outcome
}

func (r *Runner) presentTrial(ctx context.Context, setNo, stim, total int, debug bool) (trial.Record, error) {
	clip, err := r.resolver.Resolve(ctx, stim)
	if err != nil {
		return trial.Record{}, fmt.Errorf("resolve stimulus %d: %w", stim, err)
	}
	surface, err := r.presenter.Open(ctx, trial.Info{SetNo: setNo, Total: total, Stimulus: stim, Debug: debug})
	if err != nil {
		return trial.Record{}, services.Wrap(services.ErrExternalTool, "session", "open surface", "", err)
	}
	ctrl := trial.NewController(trial.Options{SetNo: setNo, Total: total, Stimulus: stim, Debug: debug}, clip, surface, r.player, r.base)
	rec, err := ctrl.Run(ctx)
	if err != nil {
		if errors.Is(err, trial.ErrDismissed) {
			return rec, services.Wrap(services.ErrValidation, "trial", "dismiss", "", err)
		}
		return rec, err
	}
	return rec, nil
}
