// Regen command creates a sibling alternate of an existing snippet.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/loom/pkg/types"
)

var (
	regenStory    string
	regenTarget   string
	regenKind     string
	regenContent  string
	regenActive   bool
	regenInactive bool
)

var regenCmd = &cobra.Command{
	Use:   "regen",
	Short: "Create a sibling alternate of a snippet",
	Long: `Regen creates a new snippet under the target's own parent, producing a
sibling alternate. The target itself is not modified.

Example:
  loom regen --story demo --target <id> --content "A different take."`,
	RunE: runRegen,
}

func init() {
	regenCmd.Flags().StringVar(&regenStory, "story", "", "story identifier (required)")
	regenCmd.Flags().StringVar(&regenTarget, "target", "", "snippet ID to regenerate (required)")
	regenCmd.Flags().StringVar(&regenKind, "kind", types.KindAI, "snippet kind: user or ai")
	regenCmd.Flags().StringVar(&regenContent, "content", "", "snippet text")
	regenCmd.Flags().BoolVar(&regenActive, "active", false, "always make the alternate the active child")
	regenCmd.Flags().BoolVar(&regenInactive, "inactive", false, "add the alternate inactive")
	_ = regenCmd.MarkFlagRequired("story")
	_ = regenCmd.MarkFlagRequired("target")
	regenCmd.MarkFlagsMutuallyExclusive("active", "inactive")
}

func runRegen(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	s, err := eng.graph.RegenerateSnippet(regenStory, regenTarget, regenContent, regenKind,
		activationFromFlags(regenActive, regenInactive))
	if err != nil {
		return fmt.Errorf("regenerate snippet: %w", err)
	}

	return printEntity(s, func() {
		fmt.Printf("Created alternate: %s\n", s.SnippetID)
	})
}
