package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show graph statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := openManager(cmd)
		if err != nil {
			return err
		}

		stats := mgr.Stats()
		fmt.Printf("nodes:       %d\n", stats.Nodes)
		fmt.Printf("connections: %d\n", stats.Connections)
		fmt.Printf("topics:      %d\n", stats.Topics)
		fmt.Printf("indexed:     %d\n", stats.Indexed)
		if lastErr := mgr.LastError(); lastErr != "" {
			fmt.Printf("last error:  %s\n", lastErr)
		}
		return nil
	},
}
