package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"listenrate/internal/archive"
	"listenrate/internal/audio"
	"listenrate/internal/config"
	"listenrate/internal/console"
	"listenrate/internal/logging"
	"listenrate/internal/notifications"
	"listenrate/internal/preflight"
	"listenrate/internal/results"
	"listenrate/internal/session"
	"listenrate/internal/stimulus"
)

const debugPrompt = "Run in debug mode?"

func newRunCommand(ctx *commandContext) *cobra.Command {
	var debug bool
	var poolSize int
	var seed uint64
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one participant through the stimulus battery",
		Long: `Run presents every stimulus in random order, collects the eight ratings
per stimulus and saves the results table when the battery is finished.

Unless --debug is given, the operator is asked once whether to run in debug
mode. Debug mode shows the true stimulus index, unlocks the scales and stop
control from the start, and allows closing a trial without submitting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pool-size") {
				cfg.Session.PoolSize = poolSize
			}
			if cmd.Flags().Changed("seed") {
				cfg.Session.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := console.ShouldColorize(out)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipChecks {
				checks := preflight.RunAll(runCtx, cfg)
				if failed := preflight.Failed(checks); len(failed) > 0 {
					for _, r := range failed {
						fmt.Fprintln(out, renderStatusLine(r.Name, statusError, r.Detail, colorize))
					}
					return errors.New("preflight checks failed (run `listenrate check` for details or pass --skip-checks)")
				}
			}

			term := console.New(cmd.InOrStdin(), out, cfg.Scales, logger, console.WithColor(colorize))
			if !cmd.Flags().Changed("debug") {
				debug, err = term.PromptBool(runCtx, debugPrompt)
				if err != nil {
					return fmt.Errorf("read debug mode: %w", err)
				}
			}

			resolver, err := stimulus.NewFileResolver(cfg)
			if err != nil {
				return err
			}
			opts := []session.RunnerOption{}
			if cfg.Export.Archive {
				store, err := archive.Open(cfg)
				if err != nil {
					logger.Warn("session archive unavailable", logging.Error(err))
				} else {
					defer store.Close()
					opts = append(opts, session.WithArchiver(store))
				}
			}
			runner := session.NewRunner(resolver, term, newPlayer(cfg, logger), results.NewStoreFromConfig(cfg, logger), logger, opts...)

			summary, runErr := runner.Run(runCtx, session.Options{
				PoolSize: cfg.Session.PoolSize,
				Debug:    debug,
				Seed:     cfg.Session.Seed,
			})
			if summary != nil {
				printSummary(out, summary, colorize)
				if !summary.Saved() {
					runErr = fmt.Errorf("save results: %w", summary.SaveErr)
				}
			}
			notifyOperator(cmd.Context(), notifications.NewService(cfg), summary, runErr, logger)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Run in debug mode without prompting")
	cmd.Flags().IntVar(&poolSize, "pool-size", 0, "Override session.pool_size")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fix the presentation order (rehearsals only)")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Start even when preflight checks fail")
	return cmd
}

// notifyOperator sends the session alert without blocking on signal
// cancellation; delivery failures are only logged.
func notifyOperator(ctx context.Context, notifier notifications.Service, summary *session.Summary, runErr error, logger *slog.Logger) {
	var err error
	switch {
	case runErr != nil:
		err = notifier.NotifyError(ctx, runErr, "session")
	case summary != nil:
		report := notifications.SessionReport{
			SessionID: summary.SessionID,
			Trials:    len(summary.Table.Rows),
			Failures:  summary.Failures,
			Duration:  summary.Table.FinishedAt.Sub(summary.Table.StartedAt),
			Success:   summary.Status.Success(),
			Results:   summary.Paths.JSON,
		}
		err = notifier.NotifySessionCompleted(ctx, report)
	}
	if err != nil {
		logger.Warn("operator notification failed", logging.Error(err))
	}
}

func newPlayer(cfg *config.Config, logger *slog.Logger) audio.Player {
	if cfg.UsesSilentPlayer() {
		return audio.NewTimedPlayer()
	}
	return audio.NewExecPlayer(cfg.Audio.Player, cfg.Audio.PlayerArgs, logger)
}

func printSummary(out io.Writer, summary *session.Summary, colorize bool) {
	kind := statusOK
	if !summary.Saved() || !summary.Status.Success() {
		kind = statusError
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, paint(summary.Message(), kind, colorize))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Session "+summary.SessionID, colorize) {
		fmt.Fprintln(out, line)
	}
	rows := make([][]string, 0, len(summary.Table.Rows))
	for i, row := range summary.Table.Rows {
		result := "complete"
		listened, elapsed := "-", "-"
		if row.Failed {
			result = "failed (" + row.FailureKind + ")"
		} else {
			listened = yesNo(row.Record.Listened)
			elapsed = strconv.FormatFloat(row.Record.Elapsed.Seconds(), 'f', 1, 64) + "s"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(row.Presented), listened, elapsed, result})
	}
	fmt.Fprintln(out, renderTable([]string{"Set", "Stimulus", "Listened", "Elapsed", "Result"}, rows, 1, 2, 4))

	if summary.Paths.JSON != "" {
		fmt.Fprintln(out, renderStatusLine("Results", statusInfo, summary.Paths.JSON, colorize))
	}
	if summary.Paths.CSV != "" {
		fmt.Fprintln(out, renderStatusLine("Table", statusInfo, summary.Paths.CSV, colorize))
	}
	if summary.Paths.XLSX != "" {
		fmt.Fprintln(out, renderStatusLine("Spreadsheet", statusInfo, summary.Paths.XLSX, colorize))
	}
	if summary.SaveErr != nil {
		fmt.Fprintln(out, renderStatusLine("Save", statusError, summary.SaveErr.Error(), colorize))
	}
	if summary.ArchiveErr != nil {
		fmt.Fprintln(out, renderStatusLine("Archive", statusWarn, summary.ArchiveErr.Error(), colorize))
	}
}
