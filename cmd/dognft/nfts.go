package main

import (
	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/lifecycle"
	"github.com/digitalpets/dognft/internal/output"
)

func NewNftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nfts",
		Short: "List the dog NFTs owned by the connected wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			if err := app.EnsureSession(cmd.Context()); err != nil {
				return handleCommandError(cmd, err)
			}

			tokens, err := app.Coord.OwnedTokens(cmd.Context())
			if err != nil {
				return handleCommandError(cmd, err)
			}
			if len(tokens) == 0 {
				output.Info("no dog NFTs owned yet, run `dognft mint` to mint one")
				return nil
			}

			for _, t := range tokens {
				printListing(t)
			}
			return nil
		},
	}
}

func printListing(t lifecycle.Listing) {
	stage := "baby"
	if t.Evolved {
		stage = "adult"
	}
	output.Bold("token %d: %s (%s)", t.TokenID, t.DogType, stage)
	output.Info("  URI: %s", t.URI)
	if t.Metadata != nil {
		output.Info("  name: %s", t.Metadata.Name)
		if t.Metadata.Image != "" {
			output.Info("  image: %s", t.Metadata.Image)
		}
	}
}
