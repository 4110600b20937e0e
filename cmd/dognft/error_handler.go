package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/faults"
)

// handleCommandError prints a classified error in a user-friendly way
// and keeps Cobra from repeating it or dumping usage text.
func handleCommandError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	if faults.ShouldSilenceUsage(err) {
		cmd.SilenceUsage = true
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", faults.GetUserMessage(err))

	if hint := faults.GetRecoveryHint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "\nHint: %s\n", hint)
	}

	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
