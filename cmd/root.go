// Package cmd implements the mempalace command line interface.
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mempalace/mempalace/pkg/palace"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mempalace",
	Short: "A personal knowledge graph for your conversations",
	Long: `Memory Palace distills conversations into discrete, linked insights
and answers recall queries against them.

Insights are extracted with a text-completion service, connected to
related insights, and ranked at recall time by importance, access
history, and recency.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "err", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(statusCmd)
}

// openManager builds a Manager from the environment and restores its
// snapshots.
func openManager(cmd *cobra.Command) (*palace.Manager, error) {
	cfg, err := palace.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	mgr, err := palace.New(cfg)
	if err != nil {
		return nil, err
	}
	mgr.Load(cmd.Context())
	return mgr, nil
}
