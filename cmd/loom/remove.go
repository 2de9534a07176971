// Remove command excises a snippet from a story.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeStory string

var removeCmd = &cobra.Command{
	Use:   "remove <snippet-id>",
	Short: "Delete a snippet, closing the gap",
	Long: `Remove excises a snippet: its children are re-parented to its own parent
so the surrounding chain stays connected, and branches pointing at it are
repointed or dropped. The story root cannot be removed.

Example:
  loom remove --story demo <id>`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&removeStory, "story", "", "story identifier (required)")
	_ = removeCmd.MarkFlagRequired("story")
}

func runRemove(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	deleted, err := eng.graph.DeleteSnippet(removeStory, args[0])
	if err != nil {
		return fmt.Errorf("remove snippet: %w", err)
	}
	if !deleted {
		fmt.Printf("Snippet %s not found in story %s\n", args[0], removeStory)
		return nil
	}
	fmt.Printf("Removed snippet: %s\n", args[0])
	return nil
}
