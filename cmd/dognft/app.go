package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/manifoldco/promptui"

	"github.com/digitalpets/dognft/internal/chain"
	"github.com/digitalpets/dognft/internal/chain/evm"
	"github.com/digitalpets/dognft/internal/config"
	"github.com/digitalpets/dognft/internal/lifecycle"
	"github.com/digitalpets/dognft/internal/metadata"
	"github.com/digitalpets/dognft/internal/output"
	"github.com/digitalpets/dognft/internal/session"
	"github.com/digitalpets/dognft/internal/state"
	"github.com/digitalpets/dognft/internal/submitter"
	"github.com/digitalpets/dognft/internal/watcher"
)

// App wires the client components for one command invocation.
type App struct {
	Cfg      config.Config
	Store    *state.File
	Sessions *session.Manager
	Coord    *lifecycle.Coordinator
	provider *evm.Provider
}

// newApp builds the component graph from the resolved configuration.
// A missing or unreachable provider degrades to a nil provider; session
// operations then classify it as NoProviderAvailable.
func newApp(ctx context.Context, cfg config.Config) *App {
	logger := log.NewNopLogger()
	if cfg.Verbose {
		logger = log.NewLogger(os.Stderr)
	}

	store := state.NewFile(cfg.Home)

	var provider *evm.Provider
	if key, err := signerKey(cfg); err != nil {
		output.Debug("no signer available: %v", err)
	} else {
		p, err := evm.NewProvider(ctx, evm.Config{
			InitialChain:    cfg.Chain,
			KnownChains:     []chain.Descriptor{cfg.Chain},
			ContractAddress: common.HexToAddress(cfg.ContractAddress),
			PrivateKey:      key,
			Confirm:         confirmChain,
			Logger:          logger,
		})
		if err != nil {
			output.Debug("provider unavailable: %v", err)
		} else {
			provider = p
		}
	}

	var chainProvider chain.Provider
	if provider != nil {
		chainProvider = provider
	}
	sessions := session.NewManager(chainProvider, cfg.Chain, store, logger)

	watch := watcher.New(headReader{provider: provider}, watcher.Config{}, logger)
	submit := submitter.New(logger)
	fetch := metadata.NewFetcher(cfg.IPFSGateway, nil)
	coord := lifecycle.New(sessions, submit, watch, fetch, logger)

	return &App{
		Cfg:      cfg,
		Store:    store,
		Sessions: sessions,
		Coord:    coord,
		provider: provider,
	}
}

// Close releases provider resources.
func (a *App) Close() {
	if a.provider != nil {
		a.provider.Close()
	}
}

// EnsureSession applies reconnect-on-load and fails with guidance when
// no session could be established.
func (a *App) EnsureSession(ctx context.Context) error {
	if a.Sessions.Current() != nil {
		return nil
	}
	a.Sessions.ReconnectOnLoad(ctx)
	if a.Sessions.Current() == nil {
		return fmt.Errorf("wallet is not connected, run `dognft connect` first")
	}
	return nil
}

// headReader exposes the provider's block height to the watcher.
type headReader struct {
	provider *evm.Provider
}

func (h headReader) BlockNumber(ctx context.Context) (uint64, error) {
	if h.provider == nil {
		return 0, chain.ErrNoProvider
	}
	return h.provider.BlockNumber(ctx)
}

// signerKey resolves the signer's private key from config.
func signerKey(cfg config.Config) (string, error) {
	if cfg.PrivateKey != "" {
		return cfg.PrivateKey, nil
	}
	if cfg.KeyFile != "" {
		data, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return "", fmt.Errorf("read key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", fmt.Errorf("no wallet key configured (set wallet.private_key or wallet.key_file in config.toml)")
}

// confirmChain interactively approves a chain switch or add request.
func confirmChain(desc chain.Descriptor) error {
	name := desc.Name
	if name == "" {
		name = desc.ChainID
	}
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Switch wallet to chain %s (%s)", name, desc.ChainID),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return &chain.ProviderError{Code: chain.CodeUserRejected, Message: "user rejected chain switch"}
	}
	return nil
}
