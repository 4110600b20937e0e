// Package watcher bridges the contract's asynchronous log events to
// single-shot awaited results. Each wait is bounded by a timeout, filters
// out stale events from before its look-back window, matches events by a
// relevance predicate, and always detaches its subscription before
// returning.
package watcher

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/faults"
)

const (
	// DefaultTolerance is the look-back window in blocks. It compensates
	// for head drift between transaction submission and watch
	// installation without admitting unrelated prior activity.
	DefaultTolerance = 5

	// DefaultTimeout bounds each event wait.
	DefaultTimeout = 150 * time.Second
)

// HeadReader reports the current block height.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Config tunes a Watcher. Zero values take the defaults above.
type Config struct {
	Tolerance uint64
	Timeout   time.Duration
	Clock     Clock
}

// Watcher awaits confirming contract events.
type Watcher struct {
	heads     HeadReader
	tolerance uint64
	timeout   time.Duration
	clock     Clock
	logger    log.Logger
}

// New creates a Watcher over the given head source.
func New(heads HeadReader, cfg Config, logger log.Logger) *Watcher {
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Watcher{
		heads:     heads,
		tolerance: cfg.Tolerance,
		timeout:   cfg.Timeout,
		clock:     cfg.Clock,
		logger:    logger,
	}
}

// Confirmation is a resolved event wait: the matched event's token,
// transaction identity, and the finalized receipt.
type Confirmation struct {
	WatchID uuid.UUID
	TokenID uint64
	TxHash  common.Hash
	Receipt *types.Receipt
}

// startBlock computes the lower edge of the look-back window. Events at
// or below it are discarded as stale.
func (w *Watcher) startBlock(ctx context.Context) (uint64, error) {
	head, err := w.heads.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("query block number: %w", err)
	}
	if head < w.tolerance {
		return 0, nil
	}
	return head - w.tolerance, nil
}

// AwaitMint resolves when an NFTMinted event for the given account lands
// after the look-back edge, then waits for the event's transaction to
// finalize so subsequent metadata reads observe settled state.
func (w *Watcher) AwaitMint(ctx context.Context, nft contract.DigitalNft, account common.Address) (*Confirmation, error) {
	watchID := uuid.New()
	start, err := w.startBlock(ctx)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("watching for mint", "watch_id", watchID, "account", account.Hex(), "start_block", start)

	sink := make(chan contract.MintedEvent, 8)
	sub, err := nft.WatchMinted(ctx, sink)
	if err != nil {
		return nil, fmt.Errorf("subscribe to NFTMinted: %w", err)
	}
	defer sub.Unsubscribe()

	match := func(ev contract.MintedEvent) bool {
		return ev.Raw.BlockNumber > start && ev.Requester == account
	}

	// The subscription only sees new logs; re-read the look-back window
	// for events raced between submission and subscribe.
	backlog, err := nft.FilterMinted(ctx, start+1)
	if err != nil {
		return nil, fmt.Errorf("filter NFTMinted: %w", err)
	}
	for _, ev := range backlog {
		if match(ev) {
			return w.finalize(ctx, nft, watchID, ev.TokenID.Uint64(), ev.Raw.TxHash)
		}
	}

	deadline := w.clock.After(w.timeout)
	for {
		select {
		case ev := <-sink:
			if !match(ev) {
				continue
			}
			return w.finalize(ctx, nft, watchID, ev.TokenID.Uint64(), ev.Raw.TxHash)
		case err := <-sub.Err():
			return nil, fmt.Errorf("NFTMinted subscription: %w", err)
		case <-deadline:
			return nil, faults.New(faults.EventWatchTimeout,
				"mint confirmation timed out; the transaction may still land, check your NFTs again shortly").
				WithHint("run `dognft nfts` to re-check your tokens")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// AwaitEvolution resolves when an NFTEvolved event for the given token
// lands after the look-back edge.
func (w *Watcher) AwaitEvolution(ctx context.Context, nft contract.DigitalNft, tokenID uint64) (*Confirmation, error) {
	watchID := uuid.New()
	start, err := w.startBlock(ctx)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("watching for evolution", "watch_id", watchID, "token_id", tokenID, "start_block", start)

	sink := make(chan contract.EvolvedEvent, 8)
	sub, err := nft.WatchEvolved(ctx, sink)
	if err != nil {
		return nil, fmt.Errorf("subscribe to NFTEvolved: %w", err)
	}
	defer sub.Unsubscribe()

	match := func(ev contract.EvolvedEvent) bool {
		return ev.Raw.BlockNumber > start && ev.TokenID.IsUint64() && ev.TokenID.Uint64() == tokenID
	}

	backlog, err := nft.FilterEvolved(ctx, start+1)
	if err != nil {
		return nil, fmt.Errorf("filter NFTEvolved: %w", err)
	}
	for _, ev := range backlog {
		if match(ev) {
			return w.finalize(ctx, nft, watchID, tokenID, ev.Raw.TxHash)
		}
	}

	deadline := w.clock.After(w.timeout)
	for {
		select {
		case ev := <-sink:
			if !match(ev) {
				continue
			}
			return w.finalize(ctx, nft, watchID, tokenID, ev.Raw.TxHash)
		case err := <-sub.Err():
			return nil, fmt.Errorf("NFTEvolved subscription: %w", err)
		case <-deadline:
			return nil, faults.New(faults.EventWatchTimeout,
				"evolve confirmation timed out; the transaction may still land, check the token again shortly").
				WithHint("run `dognft nfts` to re-check the token")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// finalize waits for the matched event's transaction to settle.
func (w *Watcher) finalize(ctx context.Context, nft contract.DigitalNft, watchID uuid.UUID, tokenID uint64, txHash common.Hash) (*Confirmation, error) {
	receipt, err := nft.WaitMined(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("finalize transaction %s: %w", txHash.Hex(), err)
	}
	w.logger.Debug("event confirmed", "watch_id", watchID, "token_id", tokenID, "tx", txHash.Hex())
	return &Confirmation{
		WatchID: watchID,
		TokenID: tokenID,
		TxHash:  txHash,
		Receipt: receipt,
	}, nil
}
