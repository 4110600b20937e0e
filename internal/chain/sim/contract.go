package sim

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/token"
)

// Contract is a per-caller view of the simulated ledger, mirroring a
// signer-bound contract handle.
type Contract struct {
	ledger *Ledger
	caller common.Address
}

var _ contract.DigitalNft = (*Contract)(nil)

// Bind returns the ledger's contract surface for the given caller.
func (l *Ledger) Bind(caller common.Address) *Contract {
	return &Contract{ledger: l, caller: caller}
}

func (c *Contract) MintNft(ctx context.Context, dogType uint8, value *big.Int) (common.Hash, error) {
	return c.ledger.mint(c.caller, dogType, value)
}

func (c *Contract) Evolve(ctx context.Context, tokenID *big.Int, value *big.Int) (common.Hash, error) {
	return c.ledger.evolve(c.caller, tokenID, value)
}

func (c *Contract) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	id := tokenID.Uint64()
	if !tokenID.IsUint64() || id >= uint64(len(l.tokens)) {
		return "", revert(ReasonInvalidTokenID)
	}
	return l.tokens[id].uri, nil
}

func (c *Contract) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	id := tokenID.Uint64()
	if !tokenID.IsUint64() || id >= uint64(len(l.tokens)) {
		return common.Address{}, revert(ReasonInvalidTokenID)
	}
	return l.tokens[id].owner, nil
}

func (c *Contract) TokenCounter(ctx context.Context) (*big.Int, error) {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).SetUint64(uint64(len(l.tokens))), nil
}

func (c *Contract) DogTokenURI(ctx context.Context, dogType uint8) (string, error) {
	if int(dogType) >= len(dogTokenURIs) {
		return "", fmt.Errorf("unknown dog type %d", dogType)
	}
	return dogTokenURIs[dogType], nil
}

func (c *Contract) GetDog(ctx context.Context, tokenID *big.Int) (contract.Dog, error) {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	id := tokenID.Uint64()
	if !tokenID.IsUint64() || id >= uint64(len(l.tokens)) {
		return contract.Dog{}, revert(ReasonInvalidTokenID)
	}
	t := l.tokens[id]
	return contract.Dog{DogType: uint8(t.dogType), Evolved: t.evolved}, nil
}

func (c *Contract) MintPrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.ledger.mintPrice), nil
}

func (c *Contract) EvolvePrice(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.ledger.evolvePrice), nil
}

func (c *Contract) WatchMinted(ctx context.Context, sink chan<- contract.MintedEvent) (event.Subscription, error) {
	return c.ledger.subscribeMinted(sink), nil
}

func (c *Contract) WatchEvolved(ctx context.Context, sink chan<- contract.EvolvedEvent) (event.Subscription, error) {
	return c.ledger.subscribeEvolved(sink), nil
}

func (c *Contract) FilterMinted(ctx context.Context, fromBlock uint64) ([]contract.MintedEvent, error) {
	return c.ledger.filterMinted(fromBlock), nil
}

func (c *Contract) FilterEvolved(ctx context.Context, fromBlock uint64) ([]contract.EvolvedEvent, error) {
	return c.ledger.filterEvolved(fromBlock), nil
}

func (c *Contract) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.ledger.receipt(txHash)
}

// Owned returns the caller's tokens, newest last. Test convenience.
func (c *Contract) Owned() []token.Token {
	l := c.ledger
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []token.Token
	for i, t := range l.tokens {
		if t.owner == c.caller {
			out = append(out, token.Token{ID: uint64(i), Owner: t.owner, URI: t.uri, Evolved: t.evolved})
		}
	}
	return out
}
