// Update command edits a snippet's content or kind in place.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateContent string
	updateKind    string
)

var updateCmd = &cobra.Command{
	Use:   "update <snippet-id>",
	Short: "Edit a snippet's content or kind in place",
	Long: `Update rewrites the text or kind of an existing snippet without touching
the graph structure. Omitted fields are left unchanged.

Example:
  loom update <id> --content "Rewritten beat."`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateContent, "content", "", "new snippet text")
	updateCmd.Flags().StringVar(&updateKind, "kind", "", "new snippet kind")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	var content, kind *string
	if cmd.Flags().Changed("content") {
		content = &updateContent
	}
	if cmd.Flags().Changed("kind") {
		kind = &updateKind
	}

	s, err := eng.graph.UpdateSnippet(args[0], content, kind)
	if err != nil {
		return fmt.Errorf("update snippet: %w", err)
	}
	return printEntity(s, func() {
		fmt.Printf("Updated snippet: %s\n", s.SnippetID)
	})
}
