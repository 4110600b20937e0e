package main

import (
	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/output"
)

func NewMintTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint-types",
		Short: "List the dog types available for minting",
		Long: `Mint-types lists the baby dog types the contract accepts for minting,
with their token URIs and resolved metadata. Adult types are excluded;
they are only reachable through evolve.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			if err := app.EnsureSession(cmd.Context()); err != nil {
				return handleCommandError(cmd, err)
			}

			types, err := app.Coord.AvailableMintTypes(cmd.Context())
			if err != nil {
				return handleCommandError(cmd, err)
			}

			for _, t := range types {
				output.Bold("%s", t.DogType)
				output.Info("  URI: %s", t.URI)
				if t.Metadata != nil {
					output.Info("  name: %s", t.Metadata.Name)
					output.Info("  description: %s", t.Metadata.Description)
				}
			}
			return nil
		},
	}
}
