package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDefaultFile(t *testing.T) {
	fc, path, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	require.NotNil(t, fc)
	assert.Empty(t, path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte("{not toml"), 0o644))
	_, _, err := Load(home, "")
	assert.Error(t, err)
}

func TestLoadAndResolve(t *testing.T) {
	home := t.TempDir()
	content := `
verbose = true

[chain]
id = "0x1"
name = "Mainnet"
rpc_urls = ["https://eth.example.com"]

[contract]
address = "0x1111111111111111111111111111111111111111"

[ipfs]
gateway = "https://gateway.example.com/ipfs/"

[wallet]
key_file = "/tmp/key"
`
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fc, loaded, err := Load(home, "")
	require.NoError(t, err)
	assert.Equal(t, path, loaded)

	cfg := Resolve(fc, home)
	assert.Equal(t, home, cfg.Home)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "0x1", cfg.Chain.ChainID)
	assert.Equal(t, "Mainnet", cfg.Chain.Name)
	assert.Equal(t, []string{"https://eth.example.com"}, cfg.Chain.RPCURLs)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.ContractAddress)
	assert.Equal(t, "https://gateway.example.com/ipfs/", cfg.IPFSGateway)
	assert.Equal(t, "/tmp/key", cfg.KeyFile)

	// Unset fields keep their defaults.
	assert.Equal(t, "ETH", cfg.Chain.NativeCurrency.Symbol)
	assert.Equal(t, uint8(18), cfg.Chain.NativeCurrency.Decimals)
}

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve(nil, "/home/test/.dognft")
	assert.Equal(t, "/home/test/.dognft", cfg.Home)
	assert.Equal(t, DefaultChainID, cfg.Chain.ChainID)
	assert.Equal(t, DefaultChainName, cfg.Chain.Name)
	assert.Equal(t, []string{DefaultRPCURL}, cfg.Chain.RPCURLs)
	assert.Equal(t, DefaultContractAddress, cfg.ContractAddress)
	assert.Equal(t, DefaultIPFSGateway, cfg.IPFSGateway)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.PrivateKey)

	empty := Resolve(&FileConfig{}, "/home/test/.dognft")
	assert.Equal(t, cfg, empty)
}
