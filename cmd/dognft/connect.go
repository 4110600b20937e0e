package main

import (
	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/output"
)

func NewConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Connect the wallet to the target chain",
		Long: `Connect establishes a session on the configured chain.

When the provider is on a different chain, a switch is requested; if the
provider does not know the chain yet, the full chain descriptor is added
first. A successful connect is remembered, so later commands reconnect
automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			s, err := app.Sessions.Connect(cmd.Context())
			if err != nil {
				return handleCommandError(cmd, err)
			}

			output.Success("connected to chain %s as %s", s.ChainID, s.Account.Hex())
			return nil
		},
	}
}

func NewDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the wallet session",
		Long:  "Disconnect clears the local session state. It has no on-chain effect.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			app.Sessions.Disconnect()
			output.Success("wallet disconnected")
			return nil
		},
	}
}
