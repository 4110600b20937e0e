package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/config"
	"github.com/digitalpets/dognft/internal/output"
)

// Global configuration, resolved in the root pre-run.
var (
	homeDir    string
	configPath string
	noColor    bool
	verbose    bool

	resolvedConfig config.Config
)

// DefaultHomeDir returns the default home directory for client data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dognft"
	}
	return filepath.Join(home, ".dognft")
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dognft",
		Short: "Mint and evolve dog NFTs against the DigitalNft contract",
		Long: `dognft is a client for the DigitalNft dog NFT contract.

It connects a local wallet to the configured chain, mints baby dogs,
evolves them into adults, and tracks confirmations through the
contract's NFTMinted and NFTEvolved events.

Examples:
  # Connect the wallet (switching or adding the target chain if needed)
  dognft connect

  # Mint a baby shiba inu
  dognft mint --dog-type BABY_SHIBA_INU

  # Evolve token 3
  dognft evolve --token-id 3

  # List your tokens
  dognft nfts`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, loadedPath, err := config.Load(homeDir, configPath)
			if err != nil {
				return err
			}
			resolvedConfig = config.Resolve(fileCfg, homeDir)

			// Flags and environment override config.toml.
			if cmd.Flags().Changed("home") {
				resolvedConfig.Home = homeDir
			}
			if envHome := os.Getenv("DOGNFT_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
				resolvedConfig.Home = envHome
			}
			if cmd.Flags().Changed("no-color") {
				resolvedConfig.NoColor = noColor
			}
			if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
				resolvedConfig.NoColor = true
			}
			if cmd.Flags().Changed("verbose") {
				resolvedConfig.Verbose = verbose
			}

			output.DefaultLogger.SetNoColor(resolvedConfig.NoColor)
			output.DefaultLogger.SetVerbose(resolvedConfig.Verbose)

			if loadedPath != "" {
				output.Debug("using config file: %s", loadedPath)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", DefaultHomeDir(), "home directory for config and state")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default <home>/config.toml)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(
		NewConnectCmd(),
		NewDisconnectCmd(),
		NewMintCmd(),
		NewEvolveCmd(),
		NewNftsCmd(),
		NewMintTypesCmd(),
		NewStatusCmd(),
		NewVersionCmd(),
	)
	return cmd
}
