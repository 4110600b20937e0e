package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/lifecycle"
	"github.com/digitalpets/dognft/internal/output"
)

func NewEvolveCmd() *cobra.Command {
	var tokenID uint64

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolve a baby dog into its adult form",
		Long: `Evolve submits a paid evolve transaction for a token you own and waits
for the contract's NFTEvolved event to confirm the change.

A token can evolve at most once; re-running evolve on an adult is
rejected before anything is submitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			if err := app.EnsureSession(cmd.Context()); err != nil {
				return handleCommandError(cmd, err)
			}

			spinner := output.NewSpinner()
			spinner.Start(fmt.Sprintf("evolving token %d, waiting for confirmation", tokenID))
			outcome, err := app.Coord.Evolve(cmd.Context(), tokenID)
			spinner.Stop()
			if err != nil {
				if errors.Is(err, lifecycle.ErrAlreadyEvolved) {
					output.Warn("%v", err)
					return nil
				}
				return handleCommandError(cmd, err)
			}

			printOutcome("evolve", outcome)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&tokenID, "token-id", 0, "token to evolve")
	cmd.MarkFlagRequired("token-id")
	return cmd
}
