// Package cli implements resomatectl, the delegate-side command line: generation, the offline cache and sync.
package cli

import (
	"context"

	"github.com/futig/resomate/internal/builder"
	"github.com/futig/resomate/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// session owns the agent for the lifetime of one command
type session struct {
	env   string
	agent *builder.Agent
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	agent, err := builder.BuildAgent(s.env)
	if err != nil {
		return err
	}
	s.agent = agent
	cmd.SetContext(logger.WithLogger(cmd.Context(), agent.Logger))
	return nil
}

func (s *session) close() error {
	if s.agent == nil {
		return nil
	}
	err := s.agent.Close()
	s.agent = nil
	return err
}

// Execute runs resomatectl and releases the agent whether or not the command succeeded
func Execute(ctx context.Context, version string) error {
	s := &session{}
	return execute(ctx, newRootCmd(version, s), s)
}

func execute(ctx context.Context, rootCmd *cobra.Command, s *session) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &session{})
}

func newRootCmd(version string, s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "resomatectl",
		Short:   "ResoMate - Model UN drafting assistant",
		Version: version,
		Long: `resomatectl generates resolutions, speeches and rhetorical devices, keeps your documents
in a local cache that works offline, and syncs them with the ResoMate server when it is reachable.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.open,
	}
	rootCmd.PersistentFlags().StringVar(&s.env, "env", "local", "Environment to run (local, prod, or custom)")

	rootCmd.AddCommand(generateCmd(s))

	// Cache commands
	rootCmd.AddCommand(saveCmd(s))
	rootCmd.AddCommand(listCmd(s))
	rootCmd.AddCommand(showCmd(s))
	rootCmd.AddCommand(deleteCmd(s))
	rootCmd.AddCommand(clearCmd(s))
	rootCmd.AddCommand(exportCmd(s))

	// Sync commands
	rootCmd.AddCommand(pendingCmd(s))
	rootCmd.AddCommand(syncCmd(s))
	rootCmd.AddCommand(pullCmd(s))
	rootCmd.AddCommand(agentCmd(s))

	return rootCmd
}
