// Package config loads the client configuration from config.toml under
// the dognft home directory, with environment and flag overrides applied
// by the CLI layer.
package config

import (
	"github.com/digitalpets/dognft/internal/chain"
)

// Defaults for a local hardhat-style devnet, matching the contract's
// original deployment.
const (
	DefaultChainID         = "0x539"
	DefaultChainName       = "Localhost"
	DefaultCurrencyName    = "Ether"
	DefaultCurrencySymbol  = "ETH"
	DefaultCurrencyDecimal = 18
	DefaultRPCURL          = "http://127.0.0.1:8545"
	DefaultContractAddress = "0xC899abF512E21C5f1F5B8dA4dF27c576FB360B6d"
	DefaultIPFSGateway     = "https://ipfs.io/ipfs/"
)

// FileConfig is the raw config.toml contents. Scalar fields are pointers
// to distinguish "not set" from "set to zero".
type FileConfig struct {
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`

	Chain    *ChainSection    `toml:"chain"`
	Contract *ContractSection `toml:"contract"`
	IPFS     *IPFSSection     `toml:"ipfs"`
	Wallet   *WalletSection   `toml:"wallet"`
}

// ChainSection describes the target chain.
type ChainSection struct {
	ID           *string  `toml:"id"`
	Name         *string  `toml:"name"`
	Currency     *string  `toml:"currency_name"`
	Symbol       *string  `toml:"currency_symbol"`
	Decimals     *uint8   `toml:"currency_decimals"`
	RPCURLs      []string `toml:"rpc_urls"`
	ExplorerURLs []string `toml:"explorer_urls"`
}

// ContractSection locates the DigitalNft contract.
type ContractSection struct {
	Address *string `toml:"address"`
}

// IPFSSection configures off-chain metadata resolution.
type IPFSSection struct {
	Gateway *string `toml:"gateway"`
}

// WalletSection configures the local signer.
type WalletSection struct {
	// PrivateKey is a hex-encoded secp256k1 key. Kept out of version
	// control; a keystore file is the safer alternative for real funds.
	PrivateKey *string `toml:"private_key"`
	KeyFile    *string `toml:"key_file"`
}

// Config is the resolved, fully-defaulted configuration.
type Config struct {
	Home            string
	NoColor         bool
	Verbose         bool
	Chain           chain.Descriptor
	ContractAddress string
	IPFSGateway     string
	PrivateKey      string
	KeyFile         string
}

// Resolve merges a parsed file config with defaults.
func Resolve(fc *FileConfig, home string) Config {
	cfg := Config{
		Home: home,
		Chain: chain.Descriptor{
			ChainID: DefaultChainID,
			Name:    DefaultChainName,
			NativeCurrency: chain.NativeCurrency{
				Name:     DefaultCurrencyName,
				Symbol:   DefaultCurrencySymbol,
				Decimals: DefaultCurrencyDecimal,
			},
			RPCURLs: []string{DefaultRPCURL},
		},
		ContractAddress: DefaultContractAddress,
		IPFSGateway:     DefaultIPFSGateway,
	}
	if fc == nil {
		return cfg
	}

	if fc.Home != nil {
		cfg.Home = *fc.Home
	}
	if fc.NoColor != nil {
		cfg.NoColor = *fc.NoColor
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if c := fc.Chain; c != nil {
		if c.ID != nil {
			cfg.Chain.ChainID = *c.ID
		}
		if c.Name != nil {
			cfg.Chain.Name = *c.Name
		}
		if c.Currency != nil {
			cfg.Chain.NativeCurrency.Name = *c.Currency
		}
		if c.Symbol != nil {
			cfg.Chain.NativeCurrency.Symbol = *c.Symbol
		}
		if c.Decimals != nil {
			cfg.Chain.NativeCurrency.Decimals = *c.Decimals
		}
		if len(c.RPCURLs) > 0 {
			cfg.Chain.RPCURLs = c.RPCURLs
		}
		if len(c.ExplorerURLs) > 0 {
			cfg.Chain.ExplorerURLs = c.ExplorerURLs
		}
	}
	if fc.Contract != nil && fc.Contract.Address != nil {
		cfg.ContractAddress = *fc.Contract.Address
	}
	if fc.IPFS != nil && fc.IPFS.Gateway != nil {
		cfg.IPFSGateway = *fc.IPFS.Gateway
	}
	if fc.Wallet != nil {
		if fc.Wallet.PrivateKey != nil {
			cfg.PrivateKey = *fc.Wallet.PrivateKey
		}
		if fc.Wallet.KeyFile != nil {
			cfg.KeyFile = *fc.Wallet.KeyFile
		}
	}
	return cfg
}
