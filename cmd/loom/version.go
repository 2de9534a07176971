package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/loom/pkg/loom"
)

const modulePath = "github.com/inkforge/loom"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the loom version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "loom v%s\nmodule: %s\n", loom.Version, modulePath)
		return nil
	},
}
