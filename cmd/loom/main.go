// Package main provides the loom CLI, a branching story notebook: snippets
// of prose form a graph per story, named branches point at alternate lines
// of history, and the main path reads as the current story text.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/inkforge/loom/pkg/types"
)

// Exit codes: user errors (bad references, invariant violations) versus
// system errors (storage failures).
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode classifies an error into a CLI exit code.
func exitCode(err error) int {
	for _, userErr := range []error{
		types.ErrNotFound,
		types.ErrParentNotFound,
		types.ErrTargetNotFound,
		types.ErrHeadNotFound,
		types.ErrBranchNotFound,
		types.ErrCannotDeleteRoot,
		types.ErrNotAChild,
		types.ErrStoryMismatch,
		types.ErrInvalidName,
		types.ErrInvalidID,
	} {
		if errors.Is(err, userErr) {
			return exitUserError
		}
	}
	return exitSysError
}
