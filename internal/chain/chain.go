// Package chain defines the provider capability consumed by the session,
// submitter, and watcher layers, together with the chain descriptor used
// for the add-chain handshake.
package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// NativeCurrency describes the chain's native token for add-chain requests.
type NativeCurrency struct {
	Name     string `toml:"name"`
	Symbol   string `toml:"symbol"`
	Decimals uint8  `toml:"decimals"`
}

// Descriptor carries the full target-chain description. It is the payload
// of an add-chain request when the provider does not know the chain.
type Descriptor struct {
	ChainID        string         `toml:"id"` // hex string, e.g. "0x539"
	Name           string         `toml:"name"`
	NativeCurrency NativeCurrency `toml:"native_currency"`
	RPCURLs        []string       `toml:"rpc_urls"`
	ExplorerURLs   []string       `toml:"explorer_urls"`
}

// ParseChainID normalizes a chain identifier to a numeric value. Both
// hex ("0x539") and decimal ("1337") spellings are accepted.
func ParseChainID(id string) (*big.Int, error) {
	s := strings.TrimSpace(id)
	if s == "" {
		return nil, fmt.Errorf("empty chain ID")
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid chain ID: %q", id)
	}
	return n, nil
}

// SameChainID compares two chain identifiers after normalization, so a
// decimal spelling matches its hex equivalent.
func SameChainID(a, b string) (bool, error) {
	na, err := ParseChainID(a)
	if err != nil {
		return false, err
	}
	nb, err := ParseChainID(b)
	if err != nil {
		return false, err
	}
	return na.Cmp(nb) == 0, nil
}
