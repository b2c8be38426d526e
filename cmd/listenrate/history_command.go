package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"listenrate/internal/archive"
	"listenrate/internal/console"
)

const timeLayout = "2006-01-02 15:04"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List archived sessions or show one session's trials",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Export.Archive {
				return errors.New("session archive is disabled (export.archive = false)")
			}
			store, err := archive.Open(cfg)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return showSession(cmd, store, strings.TrimSpace(args[0]))
			}

			sessions, err := store.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No archived sessions")
				return nil
			}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				status := "ok"
				if !s.Status.Success() {
					status = "errors"
				}
				rows = append(rows, []string{
					s.ID,
					s.StartedAt.Local().Format(timeLayout),
					strconv.Itoa(s.PoolSize),
					strconv.Itoa(s.Failures),
					yesNo(s.Debug),
					status,
					s.ResultsBase,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Session", "Started", "Trials", "Failures", "Debug", "Status", "Results"}, rows, 3, 4))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list (0 for all)")
	return cmd
}

func showSession(cmd *cobra.Command, store *archive.Store, id string) error {
	s, err := store.GetSession(cmd.Context(), id)
	if err != nil {
		return err
	}
	trials, err := store.Trials(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := console.ShouldColorize(out)
	for _, line := range renderSectionHeader("Session "+s.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	if !s.Status.Success() {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, s.StartedAt.Local().Format(timeLayout), colorize))
	fmt.Fprintln(out, renderStatusLine("Status", kind, s.Status.Message(), colorize))

	rows := make([][]string, 0, len(trials))
	for _, t := range trials {
		row := []string{strconv.Itoa(t.SetNo), strconv.Itoa(t.Stimulus)}
		for _, r := range t.Ratings {
			if r == nil {
				row = append(row, "-")
			} else {
				row = append(row, strconv.Itoa(*r))
			}
		}
		listened, elapsed := "-", "-"
		if t.Listened != nil {
			listened = yesNo(*t.Listened)
		}
		if t.Elapsed != nil {
			elapsed = strconv.FormatFloat(t.Elapsed.Seconds(), 'f', 1, 64) + "s"
		}
		note := ""
		if t.Failed() {
			note = t.FailureKind
			if t.FailureReason != "" {
				note += ": " + t.FailureReason
			}
		}
		rows = append(rows, append(row, listened, elapsed, note))
	}
	headers := []string{"Set", "Stimulus", "R1", "R2", "R3", "R4", "R5", "R6", "R7", "R8", "Listened", "Elapsed", "Failure"}
	fmt.Fprintln(out, renderTable(headers, rows, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12))
	return nil
}
