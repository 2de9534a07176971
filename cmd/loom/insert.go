// Insert commands splice a new snippet into an existing chain without
// destroying history.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	insertStory   string
	insertTarget  string
	insertParent  string
	insertKind    string
	insertContent string
	insertActive  bool
)

var insertAboveCmd = &cobra.Command{
	Use:   "insert-above",
	Short: "Splice a snippet between a target and its parent",
	Long: `Insert-above places a new snippet directly before the target: the new
snippet takes the target's old parent, and the target is re-parented under
it. With --active the active path through the splice point is preserved.

Example:
  loom insert-above --story demo --target <id> --active --content "A new beat."`,
	RunE: runInsertAbove,
}

var insertBelowCmd = &cobra.Command{
	Use:   "insert-below",
	Short: "Splice a snippet between a parent and its continuation",
	Long: `Insert-below places a new snippet directly after the parent: the parent's
former active child, if any, is re-parented under the new snippet. With
--active the new snippet becomes the parent's active child.

Example:
  loom insert-below --story demo --parent <id> --active --content "A new beat."`,
	RunE: runInsertBelow,
}

func init() {
	for _, c := range []*cobra.Command{insertAboveCmd, insertBelowCmd} {
		c.Flags().StringVar(&insertStory, "story", "", "story identifier (required)")
		c.Flags().StringVar(&insertKind, "kind", "", "snippet kind: user or ai (default: user)")
		c.Flags().StringVar(&insertContent, "content", "", "snippet text")
		c.Flags().BoolVar(&insertActive, "active", false, "preserve the active path through the splice")
		_ = c.MarkFlagRequired("story")
	}
	insertAboveCmd.Flags().StringVar(&insertTarget, "target", "", "snippet to insert above (required)")
	_ = insertAboveCmd.MarkFlagRequired("target")
	insertBelowCmd.Flags().StringVar(&insertParent, "parent", "", "snippet to insert below (required)")
	_ = insertBelowCmd.MarkFlagRequired("parent")
}

func runInsertAbove(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	s, err := eng.graph.InsertAbove(insertStory, insertTarget, insertContent, insertKind, insertActive)
	if err != nil {
		return fmt.Errorf("insert above: %w", err)
	}
	return printEntity(s, func() {
		fmt.Printf("Inserted snippet: %s\n", s.SnippetID)
	})
}

func runInsertBelow(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	s, err := eng.graph.InsertBelow(insertStory, insertParent, insertContent, insertKind, insertActive)
	if err != nil {
		return fmt.Errorf("insert below: %w", err)
	}
	return printEntity(s, func() {
		fmt.Printf("Inserted snippet: %s\n", s.SnippetID)
	})
}
