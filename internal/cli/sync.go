package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/futig/resomate/internal/entity"
	"github.com/spf13/cobra"
)

func pendingCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show records waiting to be pushed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := s.agent.Coordinator.ListUnsynced(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if pending.Total() == 0 {
				printf(out, "%s Everything is synced\n", okMark)
				return nil
			}

			printf(out, "%d pending record(s)\n", pending.Total())
			for _, kind := range entity.EntityKinds {
				records := pending[kind]
				if len(records) == 0 {
					continue
				}
				printf(out, "\n%s (%d)\n", kind, len(records))
				for _, r := range records {
					printf(out, "  %s %s  %s\n", warnMark, r.ID, payloadTitle(r.Payload))
				}
			}
			return nil
		},
	}
}

func syncCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push every pending record now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			online := s.agent.Monitor.Check(ctx)
			printf(out, "Server: %s\n", onlineLabel(online))
			if !online {
				return fmt.Errorf("server unreachable, records stay pending")
			}

			report, err := s.agent.Coordinator.ReconcileOnReconnect(ctx, s.agent.Remote)
			if err != nil {
				return err
			}

			printf(out, "%s Attempted %d, synced %d, failed %d\n", okMark, report.Attempted, report.Synced, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("%d record(s) could not be pushed and stay pending", report.Failed)
			}
			return nil
		},
	}
}

func pullCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace local copies with the server's versions",
		Long:  "Pull fetches every document from the server. Unpushed local edits to those documents are overwritten.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := s.agent.Coordinator.Pull(cmd.Context(), s.agent.Remote)
			if err != nil {
				return err
			}

			printf(cmd.OutOrStdout(), "%s Fetched %d, updated %d\n", okMark, report.Fetched, report.Updated)
			if len(report.FailedKinds) > 0 {
				kinds := make([]string, 0, len(report.FailedKinds))
				for _, k := range report.FailedKinds {
					kinds = append(kinds, string(k))
				}
				sort.Strings(kinds)
				printf(cmd.ErrOrStderr(), "%s could not fetch: %v\n", warnMark, kinds)
			}
			return nil
		},
	}
}

func agentCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Watch the server and push pending records after every reconnect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			printf(cmd.OutOrStdout(), "Watching %s every %s (Ctrl+C to stop)\n",
				s.agent.Config.RemoteCfg.Url, s.agent.Config.SyncCfg.ProbeInterval)

			err := s.agent.RunSync(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
