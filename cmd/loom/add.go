// Add command appends a new snippet to a story.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addStory    string
	addParent   string
	addKind     string
	addContent  string
	addActive   bool
	addInactive bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a snippet to a story",
	Long: `Add creates a new snippet as a child of --parent, or as the story's root
when --parent is omitted.

By default the snippet becomes the parent's active continuation only if the
parent has none yet; --active forces it, --inactive adds an alternate.

Example:
  loom add --story demo --content "It was a dark and stormy night."
  loom add --story demo --parent <id> --kind ai --content "Thunder rolled."
  loom add --story demo --parent <id> --inactive --content "An alternate beat."`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addStory, "story", "", "story identifier (required)")
	addCmd.Flags().StringVar(&addParent, "parent", "", "parent snippet ID (omit to create a root)")
	addCmd.Flags().StringVar(&addKind, "kind", "", "snippet kind: user or ai (default: user)")
	addCmd.Flags().StringVar(&addContent, "content", "", "snippet text")
	addCmd.Flags().BoolVar(&addActive, "active", false, "always make the snippet the active child")
	addCmd.Flags().BoolVar(&addInactive, "inactive", false, "add the snippet as an inactive alternate")
	_ = addCmd.MarkFlagRequired("story")
	addCmd.MarkFlagsMutuallyExclusive("active", "inactive")
}

func runAdd(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	s, err := eng.graph.CreateSnippet(addStory, addContent, addKind, addParent,
		activationFromFlags(addActive, addInactive))
	if err != nil {
		return fmt.Errorf("add snippet: %w", err)
	}

	return printEntity(s, func() {
		fmt.Printf("Created snippet: %s\n", s.SnippetID)
	})
}
