package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [text]",
	Short: "Distill a conversation into insight nodes",
	Long: `Extract insights from conversation text and add them to the graph.

Reads the conversation from the arguments, or from stdin when no
arguments are given:

  mempalace ingest "we decided to use rust for the indexing service"
  cat transcript.txt | mempalace ingest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no conversation text given")
		}

		conversationID, _ := cmd.Flags().GetString("conversation")
		if conversationID == "" {
			conversationID = uuid.New().String()
		}

		mgr, err := openManager(cmd)
		if err != nil {
			return err
		}

		nodes, err := mgr.Ingest(cmd.Context(), conversationID, text, nil)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		if len(nodes) == 0 {
			log.Warn("no insights extracted")
			return nil
		}

		for _, node := range nodes {
			fmt.Printf("%s  [%s]  %s\n", node.ID, node.Type, node.Title)
			if len(node.Keywords) > 0 {
				fmt.Printf("    keywords: %s\n", strings.Join(node.Keywords, ", "))
			}
			if len(node.Connections) > 0 {
				fmt.Printf("    linked to %d existing node(s)\n", len(node.Connections))
			}
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().String("conversation", "", "conversation id for provenance (default: random)")
}
