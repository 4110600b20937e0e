package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/digitalpets/dognft/internal/contract"
)

// Provider error codes, matching the EIP-1193 conventions the wallet
// surface uses for the switch/add-chain handshake.
const (
	// CodeUserRejected is returned when the user declines a request.
	CodeUserRejected = 4001
	// CodeChainUnknown is returned by a switch-chain request when the
	// provider has no descriptor for the target chain; recoverable by
	// issuing an add-chain request.
	CodeChainUnknown = 4902
)

// ErrNoProvider indicates no provider capability is present in the host
// environment at all.
var ErrNoProvider = errors.New("no chain provider available")

// ProviderError is a coded failure from a provider request.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// IsUserRejected reports whether err is a user-rejected provider error.
func IsUserRejected(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == CodeUserRejected
}

// IsChainUnknown reports whether err is an unknown-chain provider error.
func IsChainUnknown(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == CodeChainUnknown
}

// Provider is the external capability the client synchronizes against:
// chain state queries, the switch/add-chain handshake, and session
// establishment. Implementations: the go-ethereum RPC provider and the
// in-memory simulator used by tests.
type Provider interface {
	// ChainID returns the provider's current chain ID as a hex string.
	ChainID(ctx context.Context) (string, error)

	// BlockNumber returns the current head block height.
	BlockNumber(ctx context.Context) (uint64, error)

	// SwitchChain asks the provider to move to the given chain. Returns
	// a *ProviderError with CodeChainUnknown when the chain has not been
	// added, or CodeUserRejected when the user declines.
	SwitchChain(ctx context.Context, chainID string) error

	// AddChain registers a chain descriptor with the provider.
	AddChain(ctx context.Context, desc Descriptor) error

	// Establish derives the signer identity and contract binding for the
	// currently selected chain.
	Establish(ctx context.Context) (common.Address, contract.DigitalNft, error)
}
