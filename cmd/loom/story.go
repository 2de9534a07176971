// Story commands operate on a whole story at once.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Whole-story operations",
}

var storyCopyCmd = &cobra.Command{
	Use:   "copy <source> <target>",
	Short: "Deep-copy a story's full graph into a new story",
	Long: `Copy duplicates every snippet of the source story into the target story
namespace under fresh IDs, preserving structure, and carries over branches
whose heads fall inside the copied set.`,
	Args: cobra.ExactArgs(2),
	RunE: runStoryCopy,
}

var storyCopyMainCmd = &cobra.Command{
	Use:   "copy-main <source> <target>",
	Short: "Copy only a story's active main line into a new story",
	Args:  cobra.ExactArgs(2),
	RunE:  runStoryCopyMain,
}

var storyDeleteCmd = &cobra.Command{
	Use:   "delete <story>",
	Short: "Remove a story's snippets and branches entirely",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoryDelete,
}

var storyTruncateCmd = &cobra.Command{
	Use:   "truncate <story>",
	Short: "Reset a story to a fresh empty root",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoryTruncate,
}

func init() {
	storyCmd.AddCommand(storyCopyCmd)
	storyCmd.AddCommand(storyCopyMainCmd)
	storyCmd.AddCommand(storyDeleteCmd)
	storyCmd.AddCommand(storyTruncateCmd)
}

func runStoryCopy(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	idMap, err := eng.graph.DuplicateStoryAll(args[0], args[1])
	if err != nil {
		return fmt.Errorf("copy story: %w", err)
	}
	return printEntity(idMap, func() {
		fmt.Printf("Copied %d snippets from %s to %s\n", len(idMap), args[0], args[1])
	})
}

func runStoryCopyMain(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	idMap, err := eng.graph.DuplicateStoryMain(args[0], args[1])
	if err != nil {
		return fmt.Errorf("copy story main line: %w", err)
	}
	return printEntity(idMap, func() {
		fmt.Printf("Copied %d snippets from %s to %s\n", len(idMap), args[0], args[1])
	})
}

func runStoryDelete(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.graph.DeleteStory(args[0]); err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	fmt.Printf("Deleted story: %s\n", args[0])
	return nil
}

func runStoryTruncate(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	root, err := eng.graph.TruncateStory(args[0])
	if err != nil {
		return fmt.Errorf("truncate story: %w", err)
	}
	return printEntity(root, func() {
		fmt.Printf("Truncated story %s; new root: %s\n", args[0], root.SnippetID)
	})
}
