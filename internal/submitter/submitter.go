// Package submitter wraps ledger-mutating calls: payment attachment,
// submission, the one-confirmation wait, and classification of ledger
// rejections with their verbatim reason strings.
package submitter

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/faults"
	"github.com/digitalpets/dognft/internal/token"
)

const revertPrefix = "execution reverted: "

// Result is a submitted and confirmed transaction.
type Result struct {
	TxHash  common.Hash
	Receipt *types.Receipt
}

// Submitter sends mutating contract calls.
type Submitter struct {
	logger log.Logger
}

// New creates a Submitter.
func New(logger log.Logger) *Submitter {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Submitter{logger: logger}
}

// Mint submits a payable mintNft call and waits for one confirmation.
func (s *Submitter) Mint(ctx context.Context, nft contract.DigitalNft, dogType token.DogType, value *big.Int) (*Result, error) {
	s.logger.Info("submitting mint", "dog_type", dogType.String(), "value", token.FormatNative(value))
	hash, err := nft.MintNft(ctx, uint8(dogType), value)
	if err != nil {
		return nil, Classify(err)
	}
	return s.confirm(ctx, nft, hash)
}

// Evolve submits a payable evolve call and waits for one confirmation.
func (s *Submitter) Evolve(ctx context.Context, nft contract.DigitalNft, tokenID uint64, value *big.Int) (*Result, error) {
	s.logger.Info("submitting evolve", "token_id", tokenID, "value", token.FormatNative(value))
	hash, err := nft.Evolve(ctx, new(big.Int).SetUint64(tokenID), value)
	if err != nil {
		return nil, Classify(err)
	}
	return s.confirm(ctx, nft, hash)
}

func (s *Submitter) confirm(ctx context.Context, nft contract.DigitalNft, hash common.Hash) (*Result, error) {
	receipt, err := nft.WaitMined(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction %s: %w", hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, faults.New(faults.LedgerRejection,
			fmt.Sprintf("transaction %s reverted", hash.Hex()))
	}
	s.logger.Info("transaction confirmed", "tx", hash.Hex(), "block", receipt.BlockNumber)
	return &Result{TxHash: hash, Receipt: receipt}, nil
}

// Classify maps a submission error into the failure taxonomy. Ledger
// rejections keep the contract's reason string verbatim; anything else
// passes through unwrapped.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Coded revert data carries the custom-error selector.
	var de rpc.DataError
	if errors.As(err, &de) {
		if data, ok := de.ErrorData().(string); ok {
			raw, decErr := hex.DecodeString(strings.TrimPrefix(data, "0x"))
			if decErr == nil {
				if reason, ok := contract.RevertReason(raw); ok {
					return faults.Wrap(faults.LedgerRejection, reason, err)
				}
			}
		}
	}

	// Geth and the simulator both spell out "execution reverted: <reason>".
	msg := err.Error()
	if idx := strings.Index(msg, revertPrefix); idx >= 0 {
		reason := msg[idx+len(revertPrefix):]
		return faults.Wrap(faults.LedgerRejection, reason, err)
	}

	return err
}
