package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"listenrate/internal/config"
	"listenrate/internal/console"
	"listenrate/internal/logging"
	"listenrate/internal/notifications"
	"listenrate/internal/preflight"
	"listenrate/internal/results"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the booth is ready for a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := console.ShouldColorize(out)

			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			checks := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range checks {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			store := results.NewStoreFromConfig(cfg, logging.NewNop())
			if base, err := store.ResolveBase(); err == nil {
				fmt.Fprintln(out, renderStatusLine("Next results", statusInfo, base+".{json,csv}", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Next results", statusWarn, err.Error(), colorize))
			}
			if ctx.configPath != "" {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			}
			if notify {
				checks = append(checks, checkNotifications(cmd, cfg, colorize))
			}

			if failed := preflight.Failed(checks); len(failed) > 0 {
				return errors.New("booth not ready")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notify, "notify", false, "Send a test alert to the configured ntfy topic")
	return cmd
}

func checkNotifications(cmd *cobra.Command, cfg *config.Config, colorize bool) preflight.Result {
	out := cmd.OutOrStdout()
	result := preflight.Result{Name: "Notifications", Passed: true}
	if cfg.Notifications.NtfyTopic == "" {
		result.Detail = "disabled (notifications.ntfy_topic is empty)"
		fmt.Fprintln(out, renderStatusLine(result.Name, statusWarn, result.Detail, colorize))
		return result
	}
	if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
		result.Passed = false
		result.Detail = err.Error()
		fmt.Fprintln(out, renderStatusLine(result.Name, statusError, result.Detail, colorize))
		return result
	}
	result.Detail = "test alert sent to " + cfg.Notifications.NtfyTopic
	fmt.Fprintln(out, renderStatusLine(result.Name, statusOK, result.Detail, colorize))
	return result
}
