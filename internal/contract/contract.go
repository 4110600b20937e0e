// Package contract provides the DigitalNft contract surface consumed by
// the client: payable transactors, view callers, and log-event watches.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// MintedEvent is a decoded NFTMinted log.
type MintedEvent struct {
	TokenID   *big.Int
	Requester common.Address
	Raw       types.Log
}

// EvolvedEvent is a decoded NFTEvolved log.
type EvolvedEvent struct {
	TokenID *big.Int
	Raw     types.Log
}

// Dog mirrors the contract's getDog return value.
type Dog struct {
	DogType uint8
	Evolved bool
}

// DigitalNft is the ledger contract surface. Bound implements it over
// JSON-RPC; the sim package implements it in memory for tests.
type DigitalNft interface {
	// MintNft submits a payable mint transaction and returns its hash.
	MintNft(ctx context.Context, dogType uint8, value *big.Int) (common.Hash, error)
	// Evolve submits a payable evolve transaction and returns its hash.
	Evolve(ctx context.Context, tokenID *big.Int, value *big.Int) (common.Hash, error)

	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	TokenCounter(ctx context.Context) (*big.Int, error)
	DogTokenURI(ctx context.Context, dogType uint8) (string, error)
	GetDog(ctx context.Context, tokenID *big.Int) (Dog, error)
	MintPrice(ctx context.Context) (*big.Int, error)
	EvolvePrice(ctx context.Context) (*big.Int, error)

	// WatchMinted streams decoded NFTMinted events into sink until the
	// returned subscription is closed.
	WatchMinted(ctx context.Context, sink chan<- MintedEvent) (event.Subscription, error)
	// WatchEvolved streams decoded NFTEvolved events into sink.
	WatchEvolved(ctx context.Context, sink chan<- EvolvedEvent) (event.Subscription, error)

	// FilterMinted returns historical NFTMinted events from fromBlock to
	// the current head. Covers the gap between transaction submission and
	// watch installation.
	FilterMinted(ctx context.Context, fromBlock uint64) ([]MintedEvent, error)
	// FilterEvolved returns historical NFTEvolved events from fromBlock.
	FilterEvolved(ctx context.Context, fromBlock uint64) ([]EvolvedEvent, error)

	// WaitMined blocks until the transaction with the given hash has at
	// least one confirmation and returns its receipt.
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}
