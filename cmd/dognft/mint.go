package main

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/lifecycle"
	"github.com/digitalpets/dognft/internal/output"
	"github.com/digitalpets/dognft/internal/token"
)

func NewMintCmd() *cobra.Command {
	var dogTypeName string

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a baby dog NFT",
		Long: `Mint submits a paid mintNft transaction and waits for the contract's
NFTMinted event to confirm the new token.

Without --dog-type, the mintable types are offered interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			if err := app.EnsureSession(cmd.Context()); err != nil {
				return handleCommandError(cmd, err)
			}

			var dogType token.DogType
			if dogTypeName == "" {
				selected, err := selectDogType()
				if err != nil {
					output.Info("mint cancelled")
					return nil
				}
				dogType = selected
			} else {
				parsed, err := token.ParseDogType(dogTypeName)
				if err != nil {
					// Unknown names flow through the coordinator so the
					// rejection is classified like any other invalid type.
					parsed = token.UnknownDogType
				}
				dogType = parsed
			}

			spinner := output.NewSpinner()
			spinner.Start(fmt.Sprintf("minting %s, waiting for confirmation", dogType))
			outcome, err := app.Coord.Mint(cmd.Context(), dogType)
			spinner.Stop()
			if err != nil {
				return handleCommandError(cmd, err)
			}

			printOutcome("mint", outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&dogTypeName, "dog-type", "", "dog type to mint (e.g. BABY_SHIBA_INU)")
	return cmd
}

func selectDogType() (token.DogType, error) {
	types := token.MintableTypes()
	items := make([]string, len(types))
	for i, dt := range types {
		items[i] = dt.String()
	}

	prompt := promptui.Select{
		Label: "Select a dog type to mint",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return types[idx], nil
}

func printOutcome(flow string, outcome *lifecycle.Outcome) {
	switch outcome.Phase {
	case lifecycle.PhaseTimedOut:
		output.Warn("%s", outcome.Warning)
		output.Info("transaction: %s", outcome.TxHash.Hex())
	case lifecycle.PhaseConfirmed:
		output.Success("%s confirmed: token %d", flow, outcome.TokenID)
		output.Info("transaction: %s", outcome.TxHash.Hex())
		if outcome.TokenURI != "" {
			output.Info("token URI: %s", outcome.TokenURI)
		}
		if outcome.Metadata != nil {
			output.Info("name: %s", outcome.Metadata.Name)
			output.Info("description: %s", outcome.Metadata.Description)
			output.Info("image: %s", outcome.Metadata.Image)
		}
		if outcome.Warning != "" {
			output.Warn("%s", outcome.Warning)
		}
	default:
		output.Info("%s finished in phase %s", flow, outcome.Phase)
	}
}
