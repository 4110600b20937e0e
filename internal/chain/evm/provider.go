// Package evm provides the go-ethereum backed chain provider. A headless
// client has no wallet extension, so "switching" chains means re-dialing
// the chain's RPC endpoint and verifying the reported chain ID; the
// switch/add handshake and its coded rejections are preserved so the
// session layer behaves identically against a wallet-style provider.
package evm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/digitalpets/dognft/internal/chain"
	"github.com/digitalpets/dognft/internal/contract"
)

// ConfirmFunc asks the user to approve a chain switch or add. Returning
// an error aborts the request; implementations signal an explicit decline
// with a CodeUserRejected provider error.
type ConfirmFunc func(desc chain.Descriptor) error

// Config configures the provider.
type Config struct {
	// InitialChain is the chain the provider starts on.
	InitialChain chain.Descriptor
	// KnownChains are descriptors the provider already has; switch
	// requests to any other chain fail with CodeChainUnknown until an
	// add-chain request supplies the descriptor.
	KnownChains []chain.Descriptor
	// ContractAddress locates the DigitalNft contract.
	ContractAddress common.Address
	// PrivateKey is the hex-encoded signer key.
	PrivateKey string
	// Confirm gates switch and add requests. nil auto-approves.
	Confirm ConfirmFunc
	Logger  log.Logger
}

// Provider implements chain.Provider over JSON-RPC.
type Provider struct {
	mu      sync.Mutex
	cfg     Config
	logger  log.Logger
	known   map[string]chain.Descriptor // keyed by normalized chain ID
	current chain.Descriptor
	client  *ethclient.Client
}

var _ chain.Provider = (*Provider)(nil)

// NewProvider dials the initial chain's first RPC endpoint.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	p := &Provider{
		cfg:    cfg,
		logger: logger,
		known:  make(map[string]chain.Descriptor),
	}
	for _, desc := range cfg.KnownChains {
		key, err := normalizeID(desc.ChainID)
		if err != nil {
			return nil, err
		}
		p.known[key] = desc
	}

	if err := p.dial(ctx, cfg.InitialChain); err != nil {
		return nil, err
	}
	return p, nil
}

func normalizeID(id string) (string, error) {
	n, err := chain.ParseChainID(id)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// dial connects to the descriptor's first reachable RPC endpoint and
// verifies the endpoint reports the descriptor's chain ID.
func (p *Provider) dial(ctx context.Context, desc chain.Descriptor) error {
	if len(desc.RPCURLs) == 0 {
		return fmt.Errorf("chain %s has no RPC URLs", desc.ChainID)
	}

	var lastErr error
	for _, url := range desc.RPCURLs {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			lastErr = fmt.Errorf("dial %s: %w", url, err)
			continue
		}

		reported, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			lastErr = fmt.Errorf("query chain ID at %s: %w", url, err)
			continue
		}
		want, err := chain.ParseChainID(desc.ChainID)
		if err != nil {
			client.Close()
			return err
		}
		if reported.Cmp(want) != 0 {
			client.Close()
			lastErr = fmt.Errorf("endpoint %s reports chain %s, want %s", url, reported, desc.ChainID)
			continue
		}

		if p.client != nil {
			p.client.Close()
		}
		p.client = client
		p.current = desc
		p.logger.Info("connected to RPC endpoint", "url", url, "chain", desc.ChainID)
		return nil
	}
	return fmt.Errorf("no reachable RPC endpoint for chain %s: %w", desc.ChainID, lastErr)
}

// ChainID returns the connected chain's ID as a hex string.
func (p *Provider) ChainID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, err := p.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("query chain ID: %w", err)
	}
	return fmt.Sprintf("0x%x", id), nil
}

// BlockNumber returns the current head height.
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	return client.BlockNumber(ctx)
}

// SwitchChain re-dials onto the requested chain. Unknown chains fail
// with CodeChainUnknown; a declined confirmation fails with
// CodeUserRejected.
func (p *Provider) SwitchChain(ctx context.Context, chainID string) error {
	key, err := normalizeID(chainID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	desc, ok := p.known[key]
	if !ok {
		return &chain.ProviderError{Code: chain.CodeChainUnknown, Message: fmt.Sprintf("chain %s has not been added", chainID)}
	}
	if p.cfg.Confirm != nil {
		if err := p.cfg.Confirm(desc); err != nil {
			return err
		}
	}
	return p.dial(ctx, desc)
}

// AddChain registers a chain descriptor after confirmation.
func (p *Provider) AddChain(ctx context.Context, desc chain.Descriptor) error {
	key, err := normalizeID(desc.ChainID)
	if err != nil {
		return err
	}
	if p.cfg.Confirm != nil {
		if err := p.cfg.Confirm(desc); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.known[key] = desc
	return nil
}

// Establish derives the signer and the contract binding on the connected
// chain.
func (p *Provider) Establish(ctx context.Context) (common.Address, contract.DigitalNft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(p.cfg.PrivateKey, "0x"))
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("parse signer key: %w", err)
	}
	account := crypto.PubkeyToAddress(key.PublicKey)

	chainID, err := p.client.ChainID(ctx)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("query chain ID: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("build transactor: %w", err)
	}

	nft, err := contract.NewBound(p.cfg.ContractAddress, p.client, opts)
	if err != nil {
		return common.Address{}, nil, err
	}
	return account, nft, nil
}

// Close releases the RPC connection.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
