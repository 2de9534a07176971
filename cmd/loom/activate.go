// Activate command repoints a parent's active-child edge.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	activateStory  string
	activateParent string
	activateChild  string
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Choose the active continuation at a branch point",
	Long: `Activate repoints the parent's active-child edge at the given child,
switching which alternate the main path follows from that point on.

Example:
  loom activate --story demo --parent <id> --child <id>`,
	RunE: runActivate,
}

func init() {
	activateCmd.Flags().StringVar(&activateStory, "story", "", "story identifier (required)")
	activateCmd.Flags().StringVar(&activateParent, "parent", "", "parent snippet ID (required)")
	activateCmd.Flags().StringVar(&activateChild, "child", "", "child snippet ID to activate (required)")
	_ = activateCmd.MarkFlagRequired("story")
	_ = activateCmd.MarkFlagRequired("parent")
	_ = activateCmd.MarkFlagRequired("child")
}

func runActivate(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.graph.ChooseActiveChild(activateStory, activateParent, activateChild); err != nil {
		return fmt.Errorf("activate child: %w", err)
	}
	fmt.Printf("Activated %s under %s\n", activateChild, activateParent)
	return nil
}
