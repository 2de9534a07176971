// Show command assembles the linear story text.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/loom/pkg/graph"
	"github.com/inkforge/loom/pkg/types"
)

var (
	showStory  string
	showBranch string
	showIDs    bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a story's assembled text",
	Long: `Show walks the story from its root and prints the joined snippet text.
Without --branch the structural main path is followed; with --branch the
named branch's head is used. A corrupted branch head is repaired in place
when possible, and the main path serves as the final fallback, so show
never fails because a pointer rotted.

Example:
  loom show --story demo
  loom show --story demo --branch draft-2`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showStory, "story", "", "story identifier (required)")
	showCmd.Flags().StringVar(&showBranch, "branch", "", "branch name (default: main path)")
	showCmd.Flags().BoolVar(&showIDs, "ids", false, "list snippet IDs instead of text")
	_ = showCmd.MarkFlagRequired("story")
}

func runShow(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	path, err := resolvePath(eng)
	if err != nil {
		return err
	}

	if showIDs {
		for _, s := range path {
			marker := " "
			if s.HasActiveChild() {
				marker = "*"
			}
			fmt.Printf("%s %s [%s]\n", marker, s.SnippetID, s.Kind)
		}
		return nil
	}
	fmt.Println(graph.BuildText(path))
	return nil
}

// resolvePath picks the snippet sequence to render: the branch head path
// (repaired if needed) or the structural main path.
func resolvePath(eng *engine) ([]*types.Snippet, error) {
	if showBranch == "" {
		return eng.graph.MainPath(showStory)
	}

	br, err := eng.branches.Get(showStory, showBranch)
	if err != nil {
		return nil, fmt.Errorf("resolve branch: %w", err)
	}

	check, err := eng.branches.ValidateHead(showStory, br.HeadID)
	if err != nil {
		return nil, fmt.Errorf("validate branch head: %w", err)
	}
	if check.Valid {
		return eng.graph.PathFromHead(showStory, br.HeadID)
	}

	newHead, ok, err := eng.branches.RepairHead(showStory, showBranch)
	if err != nil {
		return nil, fmt.Errorf("repair branch head: %w", err)
	}
	if ok {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: branch %q head repaired (%s)\n", showBranch, check.Reason)
		return eng.graph.PathFromHead(showStory, newHead)
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: branch %q unrecoverable (%s); showing main path\n", showBranch, check.Reason)
	return eng.graph.MainPath(showStory)
}
