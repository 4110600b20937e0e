package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/event"
)

// receiptPollInterval is how often WaitMined re-checks for a receipt.
const receiptPollInterval = 2 * time.Second

// Bound is the go-ethereum backed DigitalNft implementation.
type Bound struct {
	address  common.Address
	contract *bind.BoundContract
	client   *ethclient.Client
	opts     *bind.TransactOpts
}

var _ DigitalNft = (*Bound)(nil)

// NewBound binds the DigitalNft contract at address, transacting with the
// given signer options.
func NewBound(address common.Address, client *ethclient.Client, opts *bind.TransactOpts) (*Bound, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("parse DigitalNft ABI: %w", err)
	}
	return &Bound{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		client:   client,
		opts:     opts,
	}, nil
}

// Address returns the bound contract address.
func (b *Bound) Address() common.Address {
	return b.address
}

func (b *Bound) transact(ctx context.Context, value *big.Int, method string, args ...interface{}) (common.Hash, error) {
	opts := *b.opts
	opts.Context = ctx
	opts.Value = value
	tx, err := b.contract.Transact(&opts, method, args...)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

func (b *Bound) call(ctx context.Context, out *[]interface{}, method string, args ...interface{}) error {
	return b.contract.Call(&bind.CallOpts{Context: ctx}, out, method, args...)
}

// MintNft submits a payable mintNft transaction.
func (b *Bound) MintNft(ctx context.Context, dogType uint8, value *big.Int) (common.Hash, error) {
	return b.transact(ctx, value, "mintNft", dogType)
}

// Evolve submits a payable evolve transaction.
func (b *Bound) Evolve(ctx context.Context, tokenID *big.Int, value *big.Int) (common.Hash, error) {
	return b.transact(ctx, value, "evolve", tokenID)
}

func (b *Bound) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "tokenURI", tokenID); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (b *Bound) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "ownerOf", tokenID); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (b *Bound) TokenCounter(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "getTokenCounter"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (b *Bound) DogTokenURI(ctx context.Context, dogType uint8) (string, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "getDogTokenUri", dogType); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (b *Bound) GetDog(ctx context.Context, tokenID *big.Int) (Dog, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "getDog", tokenID); err != nil {
		return Dog{}, err
	}
	return *abi.ConvertType(out[0], new(Dog)).(*Dog), nil
}

func (b *Bound) MintPrice(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "getMintPrice"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (b *Bound) EvolvePrice(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := b.call(ctx, &out, "getEvolvePrice"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// WatchMinted subscribes to NFTMinted logs and decodes them into sink.
func (b *Bound) WatchMinted(ctx context.Context, sink chan<- MintedEvent) (event.Subscription, error) {
	logs, sub, err := b.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, "NFTMinted")
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				ev := MintedEvent{Raw: log}
				holder := struct {
					TokenId   *big.Int
					Requester common.Address
				}{}
				if err := b.contract.UnpackLog(&holder, "NFTMinted", log); err != nil {
					return err
				}
				ev.TokenID = holder.TokenId
				ev.Requester = holder.Requester
				select {
				case sink <- ev:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// WatchEvolved subscribes to NFTEvolved logs and decodes them into sink.
func (b *Bound) WatchEvolved(ctx context.Context, sink chan<- EvolvedEvent) (event.Subscription, error) {
	logs, sub, err := b.contract.WatchLogs(&bind.WatchOpts{Context: ctx}, "NFTEvolved")
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				ev := EvolvedEvent{Raw: log}
				holder := struct {
					TokenId *big.Int
				}{}
				if err := b.contract.UnpackLog(&holder, "NFTEvolved", log); err != nil {
					return err
				}
				ev.TokenID = holder.TokenId
				select {
				case sink <- ev:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

// FilterMinted fetches historical NFTMinted logs from fromBlock onward.
func (b *Bound) FilterMinted(ctx context.Context, fromBlock uint64) ([]MintedEvent, error) {
	logs, sub, err := b.contract.FilterLogs(&bind.FilterOpts{Start: fromBlock, Context: ctx}, "NFTMinted")
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	var events []MintedEvent
	for {
		select {
		case log := <-logs:
			holder := struct {
				TokenId   *big.Int
				Requester common.Address
			}{}
			if err := b.contract.UnpackLog(&holder, "NFTMinted", log); err != nil {
				return nil, err
			}
			events = append(events, MintedEvent{TokenID: holder.TokenId, Requester: holder.Requester, Raw: log})
		default:
			return events, nil
		}
	}
}

// FilterEvolved fetches historical NFTEvolved logs from fromBlock onward.
func (b *Bound) FilterEvolved(ctx context.Context, fromBlock uint64) ([]EvolvedEvent, error) {
	logs, sub, err := b.contract.FilterLogs(&bind.FilterOpts{Start: fromBlock, Context: ctx}, "NFTEvolved")
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	var events []EvolvedEvent
	for {
		select {
		case log := <-logs:
			holder := struct {
				TokenId *big.Int
			}{}
			if err := b.contract.UnpackLog(&holder, "NFTEvolved", log); err != nil {
				return nil, err
			}
			events = append(events, EvolvedEvent{TokenID: holder.TokenId, Raw: log})
		default:
			return events, nil
		}
	}
}

// WaitMined polls until the transaction has a receipt.
func (b *Bound) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := b.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("fetch receipt for %s: %w", txHash.Hex(), err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
