package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var recallCmd = &cobra.Command{
	Use:   "recall [query]",
	Short: "Search your insights",
	Long: `Search the knowledge graph with free text.

  mempalace recall "rust indexing"
  mempalace recall --json "rate limiting"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		mgr, err := openManager(cmd)
		if err != nil {
			return err
		}

		nodes, err := mgr.Recall(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("recall failed: %w", err)
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			data, err := json.MarshalIndent(nodes, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(nodes) == 0 {
			log.Info("no matching insights", "query", query)
			return nil
		}
		for i, node := range nodes {
			fmt.Printf("%2d. [%s] %s\n", i+1, node.Type, node.Title)
			if node.Summary != "" {
				fmt.Printf("    %s\n", node.Summary)
			}
		}
		return nil
	},
}

func init() {
	recallCmd.Flags().Bool("json", false, "print results as JSON")
}
