package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the loom storage",
	Long: `Init creates the configuration and data directories, writes a default
config.yaml, and initializes the storage data files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := attachEngine()
		if err != nil {
			return err
		}
		defer eng.close()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		fmt.Printf("Initialized loom storage in %s\n", dataDir)
		return nil
	},
}
