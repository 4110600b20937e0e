package main

import (
	"github.com/spf13/cobra"

	"github.com/digitalpets/dognft/internal/output"
	"github.com/digitalpets/dognft/internal/token"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show wallet, chain, and contract status",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp(cmd.Context(), resolvedConfig)
			defer app.Close()

			output.Bold("chain")
			output.Info("  target:   %s (%s)", app.Cfg.Chain.Name, app.Cfg.Chain.ChainID)
			output.Info("  contract: %s", app.Cfg.ContractAddress)

			remembered, err := app.Store.WalletConnected()
			if err != nil {
				output.Debug("state read failed: %v", err)
			}
			output.Bold("wallet")
			output.Info("  remembered connection: %v", remembered)

			app.Sessions.ReconnectOnLoad(cmd.Context())
			s := app.Sessions.Current()
			if s == nil {
				output.Info("  session: none")
				return nil
			}
			output.Info("  session: %s on chain %s", s.Account.Hex(), s.ChainID)

			ctx := cmd.Context()
			if mintPrice, err := s.Contract.MintPrice(ctx); err == nil {
				output.Info("  mint price:   %s ETH", token.FormatNative(mintPrice))
			}
			if evolvePrice, err := s.Contract.EvolvePrice(ctx); err == nil {
				output.Info("  evolve price: %s ETH", token.FormatNative(evolvePrice))
			}
			if counter, err := s.Contract.TokenCounter(ctx); err == nil {
				output.Info("  tokens minted: %s", counter)
			}
			return nil
		},
	}
}
