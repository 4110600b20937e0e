// Package session establishes and tracks the provider session: the
// connect handshake with chain-mismatch resolution, disconnect, and
// reconnect-on-load gated by the persisted wallet flag.
package session

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/digitalpets/dognft/internal/chain"
	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/faults"
)

// FlagStore persists the "wallet previously connected" flag.
type FlagStore interface {
	WalletConnected() (bool, error)
	SetWalletConnected(bool) error
}

// Session is an established provider session. Instances are immutable;
// reconnects replace the whole session atomically.
type Session struct {
	ChainID  string
	Account  common.Address
	Contract contract.DigitalNft
}

// Manager drives the session lifecycle against a provider.
type Manager struct {
	mu       sync.RWMutex
	provider chain.Provider
	target   chain.Descriptor
	store    FlagStore
	logger   log.Logger
	current  *Session
}

// NewManager creates a session manager for the given target chain.
// provider may be nil when the host environment has no capability; every
// Connect then fails with a NoProviderAvailable classification.
func NewManager(provider chain.Provider, target chain.Descriptor, store FlagStore, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Manager{
		provider: provider,
		target:   target,
		store:    store,
		logger:   logger,
	}
}

// Current returns the established session, or nil when disconnected.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Connect idempotently establishes a session on the target chain. On a
// chain mismatch it requests a switch; when the provider does not know
// the chain it adds the full descriptor and retries once. A user
// rejection aborts without retry.
func (m *Manager) Connect(ctx context.Context) (*Session, error) {
	if m.provider == nil {
		return nil, faults.Wrap(faults.NoProviderAvailable,
			"no wallet provider is available, please install or configure one", chain.ErrNoProvider)
	}

	chainAdded := false
	for attempt := 0; ; attempt++ {
		if attempt > 3 {
			return nil, m.fail(fmt.Errorf("provider did not settle on chain %s", m.target.ChainID))
		}
		current, err := m.provider.ChainID(ctx)
		if err != nil {
			return nil, m.fail(fmt.Errorf("query chain ID: %w", err))
		}

		same, err := chain.SameChainID(current, m.target.ChainID)
		if err != nil {
			return nil, m.fail(fmt.Errorf("compare chain IDs: %w", err))
		}
		if same {
			return m.establish(ctx)
		}

		m.logger.Info("chain mismatch, requesting switch",
			"current", current, "target", m.target.ChainID)

		switch err := m.provider.SwitchChain(ctx, m.target.ChainID); {
		case err == nil:
			// Loop re-verifies the chain ID before establishing.

		case chain.IsChainUnknown(err) && !chainAdded:
			m.logger.Info("chain unknown to provider, adding descriptor",
				"chain", m.target.ChainID, "name", m.target.Name)
			if addErr := m.provider.AddChain(ctx, m.target); addErr != nil {
				return nil, m.fail(m.classifySwitch(addErr))
			}
			chainAdded = true

		case chain.IsUserRejected(err):
			return nil, m.fail(faults.Wrap(faults.UserRejectedSwitch,
				"to connect your wallet you must switch to the right network", err))

		default:
			return nil, m.fail(m.classifySwitch(err))
		}
	}
}

// classifySwitch maps provider handshake errors into the failure taxonomy.
func (m *Manager) classifySwitch(err error) error {
	switch {
	case chain.IsUserRejected(err):
		return faults.Wrap(faults.UserRejectedSwitch,
			"to connect your wallet you must switch to the right network", err)
	case chain.IsChainUnknown(err):
		return faults.Wrap(faults.ChainUnknownToProvider,
			fmt.Sprintf("chain %s is unknown to the provider", m.target.ChainID), err).
			WithHint("add the chain to your wallet and retry")
	default:
		return fmt.Errorf("switch to chain %s: %w", m.target.ChainID, err)
	}
}

// fail records the failed connect outcome in the persisted flag.
func (m *Manager) fail(err error) error {
	if setErr := m.store.SetWalletConnected(false); setErr != nil {
		m.logger.Error("persist wallet flag", "err", setErr)
	}
	return err
}

// establish derives the signer identity and contract binding, swaps in
// the new session atomically, and persists the connected flag.
func (m *Manager) establish(ctx context.Context) (*Session, error) {
	account, nft, err := m.provider.Establish(ctx)
	if err != nil {
		return nil, m.fail(fmt.Errorf("establish session: %w", err))
	}

	s := &Session{
		ChainID:  m.target.ChainID,
		Account:  account,
		Contract: nft,
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	if err := m.store.SetWalletConnected(true); err != nil {
		m.logger.Error("persist wallet flag", "err", err)
	}
	m.logger.Info("session established", "chain", s.ChainID, "account", account.Hex())
	return s, nil
}

// Disconnect clears the in-memory session identity. It has no on-chain
// effect and always succeeds.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.SetWalletConnected(false); err != nil {
		m.logger.Error("persist wallet flag", "err", err)
	}
}

// ReconnectOnLoad connects automatically when the persisted flag says the
// wallet was previously connected. Failures degrade to a disconnected
// state instead of propagating.
func (m *Manager) ReconnectOnLoad(ctx context.Context) {
	connected, err := m.store.WalletConnected()
	if err != nil {
		m.logger.Error("read wallet flag", "err", err)
		return
	}
	if !connected {
		return
	}
	if _, err := m.Connect(ctx); err != nil {
		m.logger.Warn("automatic reconnect failed", "err", err)
	}
}
