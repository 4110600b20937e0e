package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedABI(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	for _, name := range []string{"mintNft", "evolve", "tokenURI", "ownerOf", "getTokenCounter", "getDogTokenUri", "getDog", "getMintPrice", "getEvolvePrice"} {
		_, ok := parsed.Methods[name]
		assert.True(t, ok, "method %s missing", name)
	}
	_, ok := parsed.Events["NFTMinted"]
	assert.True(t, ok)
	_, ok = parsed.Events["NFTEvolved"]
	assert.True(t, ok)
}

func TestRevertReason(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	for name := range parsed.Errors {
		selector := parsed.Errors[name].ID.Bytes()[:4]
		reason, ok := RevertReason(selector)
		assert.True(t, ok, "selector for %s not recognized", name)
		assert.Equal(t, name+"()", reason)
	}

	_, ok := RevertReason([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.False(t, ok)
	_, ok = RevertReason([]byte{0x01})
	assert.False(t, ok)
	_, ok = RevertReason(nil)
	assert.False(t, ok)
}
