// Branch commands manage named pointers into a story's snippet graph.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var branchStory string

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage named branch pointers",
}

var branchSetCmd = &cobra.Command{
	Use:   "set <name> <head-id>",
	Short: "Create or move a branch pointer",
	Long: `Set points the named branch at the given snippet, creating the branch if
it does not exist. Repointing is a pure overwrite.

Example:
  loom branch set --story demo draft-2 <id>`,
	Args: cobra.ExactArgs(2),
	RunE: runBranchSet,
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a story's branches, newest first",
	RunE:  runBranchList,
}

var branchDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a branch pointer",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchDelete,
}

var branchCheckCmd = &cobra.Command{
	Use:   "check <name>",
	Short: "Validate a branch head against the graph",
	Long: `Check walks the branch head's ancestry back to the story root and reports
whether the chain is intact, without modifying anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runBranchCheck,
}

var branchRepairCmd = &cobra.Command{
	Use:   "repair <name>",
	Short: "Repoint a corrupted branch at its nearest valid ancestor",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchRepair,
}

func init() {
	branchCmd.PersistentFlags().StringVar(&branchStory, "story", "", "story identifier (required)")
	_ = branchCmd.MarkPersistentFlagRequired("story")

	branchCmd.AddCommand(branchSetCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchDeleteCmd)
	branchCmd.AddCommand(branchCheckCmd)
	branchCmd.AddCommand(branchRepairCmd)
}

func runBranchSet(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	br, err := eng.branches.Upsert(branchStory, args[0], args[1])
	if err != nil {
		return fmt.Errorf("set branch: %w", err)
	}
	return printEntity(br, func() {
		fmt.Printf("Branch %s -> %s\n", br.Name, br.HeadID)
	})
}

func runBranchList(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	brs, err := eng.branches.List(branchStory)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	return printEntity(brs, func() {
		for _, br := range brs {
			fmt.Printf("%s\t%s\t%s\n", br.Name, br.HeadID, br.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	})
}

func runBranchDelete(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	if err := eng.branches.Delete(branchStory, args[0]); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	fmt.Printf("Deleted branch: %s\n", args[0])
	return nil
}

func runBranchCheck(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	br, err := eng.branches.Get(branchStory, args[0])
	if err != nil {
		return fmt.Errorf("resolve branch: %w", err)
	}

	check, err := eng.branches.ValidateHead(branchStory, br.HeadID)
	if err != nil {
		return fmt.Errorf("validate head: %w", err)
	}
	return printEntity(check, func() {
		if check.Valid {
			fmt.Printf("Branch %s is valid\n", br.Name)
		} else {
			fmt.Printf("Branch %s is corrupted: %s\n", br.Name, check.Reason)
		}
	})
}

func runBranchRepair(cmd *cobra.Command, args []string) error {
	eng, err := attachEngine()
	if err != nil {
		return err
	}
	defer eng.close()

	newHead, ok, err := eng.branches.RepairHead(branchStory, args[0])
	if err != nil {
		return fmt.Errorf("repair branch: %w", err)
	}
	if !ok {
		fmt.Printf("Branch %s is unrecoverable; no valid ancestor\n", args[0])
		return nil
	}
	fmt.Printf("Branch %s -> %s\n", args[0], newHead)
	return nil
}
