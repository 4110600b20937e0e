// Package sim provides an in-memory provider and DigitalNft ledger with
// the same observable behavior as the on-chain contract: sequential token
// ids, payment and ownership gating, one-way evolution, and log-event
// delivery with block heights. It backs the test suite and local dry runs.
package sim

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"

	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/token"
)

// Revert reasons, verbatim from the contract.
const (
	ReasonInvalidMintType   = "DigitalNft__InvalidMintType()"
	ReasonInsufficientETH   = "DigitalNft__InsufficientETHSent()"
	ReasonInvalidOwner      = "DigitalNft__InvalidOwner()"
	ReasonInvalidTokenID    = "DigitalNft__InvalidTokenId()"
	ReasonNftAlreadyEvolved = "DigitalNft__NftAlreadyEvolved()"

	revertPrefix = "execution reverted: "
)

// dogTokenURIs are the per-type metadata URIs from the contract deployment.
var dogTokenURIs = [...]string{
	"ipfs://QmQHkp3KPLczq82sQhWS5gQiK4ywcKALK956GUbNGExPcH",
	"ipfs://QmZYLVm2gfi68PnmdtFkkDcGkJBZPpkrRdS3mZqDjT2FU4",
	"ipfs://QmTBGwmPwUgNEHN6PQX5dN6Wx97bsf5X3RdqKVgZXyb5gN",
	"ipfs://QmV1SJTECRmZW9hkUnNe3geHgxMZEwAEeF7XKo6KkwcZtf",
	"ipfs://QmPT698D8QFYoraqhhfZsVCeq3EQS1irAKJWDqqMKEjYkd",
	"ipfs://QmaKzdBqACRYuQdEsaf2TgaU3gncuNXpGnJSasUf8Doov3",
}

type simToken struct {
	dogType token.DogType
	owner   common.Address
	uri     string
	evolved bool
}

// Ledger is the in-memory DigitalNft state machine.
type Ledger struct {
	mu          sync.Mutex
	head        uint64
	mintPrice   *big.Int
	evolvePrice *big.Int
	tokens      []simToken
	receipts    map[common.Hash]*types.Receipt
	mintedLog   []contract.MintedEvent
	evolvedLog  []contract.EvolvedEvent

	mintedSinks  map[uuid.UUID]chan<- contract.MintedEvent
	evolvedSinks map[uuid.UUID]chan<- contract.EvolvedEvent
}

// NewLedger creates a ledger at block height head with the default prices.
func NewLedger(head uint64) *Ledger {
	mint, _ := token.ParseNative(token.DefaultMintPrice)
	evolve, _ := token.ParseNative(token.DefaultEvolvePrice)
	return &Ledger{
		head:         head,
		mintPrice:    mint,
		evolvePrice:  evolve,
		receipts:     make(map[common.Hash]*types.Receipt),
		mintedSinks:  make(map[uuid.UUID]chan<- contract.MintedEvent),
		evolvedSinks: make(map[uuid.UUID]chan<- contract.EvolvedEvent),
	}
}

// Head returns the current block height.
func (l *Ledger) Head() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.head
}

// AdvanceBlocks moves the head forward without ledger activity.
func (l *Ledger) AdvanceBlocks(n uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head += n
}

// MintedListenerCount returns the number of attached NFTMinted listeners.
func (l *Ledger) MintedListenerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.mintedSinks)
}

// EvolvedListenerCount returns the number of attached NFTEvolved listeners.
func (l *Ledger) EvolvedListenerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.evolvedSinks)
}

func revert(reason string) error {
	return fmt.Errorf("%s%s", revertPrefix, reason)
}

func pseudoHash() common.Hash {
	id := uuid.New()
	return crypto.Keccak256Hash(id[:])
}

// mint applies the mintNft transition for the given caller.
func (l *Ledger) mint(caller common.Address, dogType uint8, value *big.Int) (common.Hash, error) {
	l.mu.Lock()

	if dogType >= token.MintableTypeCount {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonInvalidMintType)
	}
	if value == nil || value.Cmp(l.mintPrice) < 0 {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonInsufficientETH)
	}

	l.head++
	id := uint64(len(l.tokens))
	l.tokens = append(l.tokens, simToken{
		dogType: token.DogType(dogType),
		owner:   caller,
		uri:     dogTokenURIs[dogType],
	})

	hash := pseudoHash()
	l.receipts[hash] = &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(l.head),
	}

	ev := contract.MintedEvent{
		TokenID:   new(big.Int).SetUint64(id),
		Requester: caller,
		Raw:       types.Log{BlockNumber: l.head, TxHash: hash},
	}
	l.mintedLog = append(l.mintedLog, ev)
	sinks := make([]chan<- contract.MintedEvent, 0, len(l.mintedSinks))
	for _, sink := range l.mintedSinks {
		sinks = append(sinks, sink)
	}
	l.mu.Unlock()

	for _, sink := range sinks {
		sink <- ev
	}
	return hash, nil
}

// evolve applies the evolve transition for the given caller.
func (l *Ledger) evolve(caller common.Address, tokenID *big.Int, value *big.Int) (common.Hash, error) {
	l.mu.Lock()

	if value == nil || value.Cmp(l.evolvePrice) < 0 {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonInsufficientETH)
	}
	id := tokenID.Uint64()
	if !tokenID.IsUint64() || id >= uint64(len(l.tokens)) {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonInvalidTokenID)
	}
	t := &l.tokens[id]
	if t.owner != caller {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonInvalidOwner)
	}
	if t.evolved {
		l.mu.Unlock()
		return common.Hash{}, revert(ReasonNftAlreadyEvolved)
	}

	l.head++
	adult, _ := t.dogType.Evolved()
	t.dogType = adult
	t.uri = dogTokenURIs[adult]
	t.evolved = true

	hash := pseudoHash()
	l.receipts[hash] = &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(l.head),
	}

	ev := contract.EvolvedEvent{
		TokenID: new(big.Int).SetUint64(id),
		Raw:     types.Log{BlockNumber: l.head, TxHash: hash},
	}
	l.evolvedLog = append(l.evolvedLog, ev)
	sinks := make([]chan<- contract.EvolvedEvent, 0, len(l.evolvedSinks))
	for _, sink := range l.evolvedSinks {
		sinks = append(sinks, sink)
	}
	l.mu.Unlock()

	for _, sink := range sinks {
		sink <- ev
	}
	return hash, nil
}

// InjectMinted delivers a fabricated NFTMinted event to all subscribers,
// registering a receipt for its transaction hash. Used to simulate mints
// from other sessions and stale events from prior activity.
func (l *Ledger) InjectMinted(tokenID uint64, requester common.Address, blockNumber uint64) common.Hash {
	hash := pseudoHash()
	l.mu.Lock()
	l.receipts[hash] = &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(blockNumber),
	}
	ev := contract.MintedEvent{
		TokenID:   new(big.Int).SetUint64(tokenID),
		Requester: requester,
		Raw:       types.Log{BlockNumber: blockNumber, TxHash: hash},
	}
	l.mintedLog = append(l.mintedLog, ev)
	sinks := make([]chan<- contract.MintedEvent, 0, len(l.mintedSinks))
	for _, sink := range l.mintedSinks {
		sinks = append(sinks, sink)
	}
	l.mu.Unlock()

	for _, sink := range sinks {
		sink <- ev
	}
	return hash
}

// InjectEvolved delivers a fabricated NFTEvolved event to all subscribers.
func (l *Ledger) InjectEvolved(tokenID uint64, blockNumber uint64) common.Hash {
	hash := pseudoHash()
	l.mu.Lock()
	l.receipts[hash] = &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(blockNumber),
	}
	ev := contract.EvolvedEvent{
		TokenID: new(big.Int).SetUint64(tokenID),
		Raw:     types.Log{BlockNumber: blockNumber, TxHash: hash},
	}
	l.evolvedLog = append(l.evolvedLog, ev)
	out := make([]chan<- contract.EvolvedEvent, 0, len(l.evolvedSinks))
	for _, sink := range l.evolvedSinks {
		out = append(out, sink)
	}
	l.mu.Unlock()

	for _, sink := range out {
		sink <- ev
	}
	return hash
}

func (l *Ledger) subscribeMinted(sink chan<- contract.MintedEvent) event.Subscription {
	id := uuid.New()
	l.mu.Lock()
	l.mintedSinks[id] = sink
	l.mu.Unlock()

	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		l.mu.Lock()
		delete(l.mintedSinks, id)
		l.mu.Unlock()
		return nil
	})
}

func (l *Ledger) subscribeEvolved(sink chan<- contract.EvolvedEvent) event.Subscription {
	id := uuid.New()
	l.mu.Lock()
	l.evolvedSinks[id] = sink
	l.mu.Unlock()

	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		l.mu.Lock()
		delete(l.evolvedSinks, id)
		l.mu.Unlock()
		return nil
	})
}

func (l *Ledger) filterMinted(fromBlock uint64) []contract.MintedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []contract.MintedEvent
	for _, ev := range l.mintedLog {
		if ev.Raw.BlockNumber >= fromBlock {
			out = append(out, ev)
		}
	}
	return out
}

func (l *Ledger) filterEvolved(fromBlock uint64) []contract.EvolvedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []contract.EvolvedEvent
	for _, ev := range l.evolvedLog {
		if ev.Raw.BlockNumber >= fromBlock {
			out = append(out, ev)
		}
	}
	return out
}

func (l *Ledger) receipt(hash common.Hash) (*types.Receipt, error) {
	l.mu.Lock()
	r, ok := l.receipts[hash]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", hash.Hex())
	}
	return r, nil
}
