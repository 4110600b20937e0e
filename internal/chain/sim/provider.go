package sim

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/digitalpets/dognft/internal/chain"
	"github.com/digitalpets/dognft/internal/contract"
)

// Provider is a scriptable in-memory chain.Provider. Tests configure its
// starting chain, the set of chains it already knows, and whether the user
// declines switch or add requests.
type Provider struct {
	mu      sync.Mutex
	ledger  *Ledger
	account common.Address
	current string
	known   map[string]chain.Descriptor

	// RejectSwitch makes SwitchChain fail with CodeUserRejected.
	RejectSwitch bool
	// RejectAdd makes AddChain fail with CodeUserRejected.
	RejectAdd bool

	switchCalls    int
	addCalls       int
	contractCalls  int
	lastAddedChain chain.Descriptor
}

var _ chain.Provider = (*Provider)(nil)

// NewProvider creates a provider currently on chainID, knowing only that
// chain, with the given account and ledger behind it.
func NewProvider(ledger *Ledger, chainID string, account common.Address) *Provider {
	return &Provider{
		ledger:  ledger,
		account: account,
		current: chainID,
		known:   map[string]chain.Descriptor{chainID: {ChainID: chainID}},
	}
}

func (p *Provider) ChainID(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	return p.ledger.Head(), nil
}

func (p *Provider) SwitchChain(ctx context.Context, chainID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switchCalls++
	if p.RejectSwitch {
		return &chain.ProviderError{Code: chain.CodeUserRejected, Message: "user rejected chain switch"}
	}
	if _, ok := p.known[chainID]; !ok {
		return &chain.ProviderError{Code: chain.CodeChainUnknown, Message: "unrecognized chain ID"}
	}
	p.current = chainID
	return nil
}

func (p *Provider) AddChain(ctx context.Context, desc chain.Descriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addCalls++
	if p.RejectAdd {
		return &chain.ProviderError{Code: chain.CodeUserRejected, Message: "user rejected chain add"}
	}
	p.known[desc.ChainID] = desc
	p.lastAddedChain = desc
	return nil
}

func (p *Provider) Establish(ctx context.Context) (common.Address, contract.DigitalNft, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contractCalls++
	return p.account, p.ledger.Bind(p.account), nil
}

// SwitchCalls returns how many switch-chain requests were issued.
func (p *Provider) SwitchCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.switchCalls
}

// AddCalls returns how many add-chain requests were issued.
func (p *Provider) AddCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addCalls
}

// LastAddedChain returns the descriptor of the most recent add-chain request.
func (p *Provider) LastAddedChain() chain.Descriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAddedChain
}
