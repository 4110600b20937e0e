package chain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChainID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int64
		wantErr bool
	}{
		{name: "hex", id: "0x539", want: 1337},
		{name: "hex uppercase prefix", id: "0X539", want: 1337},
		{name: "decimal", id: "1337", want: 1337},
		{name: "mainnet", id: "0x1", want: 1},
		{name: "whitespace", id: " 0x539 ", want: 1337},
		{name: "empty", id: "", wantErr: true},
		{name: "garbage", id: "0xzz", wantErr: true},
		{name: "not a number", id: "localhost", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseChainID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Int64())
		})
	}
}

func TestSameChainID(t *testing.T) {
	same, err := SameChainID("0x539", "1337")
	require.NoError(t, err)
	assert.True(t, same)

	same, err = SameChainID("0x539", "0x1")
	require.NoError(t, err)
	assert.False(t, same)

	_, err = SameChainID("0x539", "")
	assert.Error(t, err)
}

func TestProviderErrorClassification(t *testing.T) {
	rejected := &ProviderError{Code: CodeUserRejected, Message: "user said no"}
	unknown := &ProviderError{Code: CodeChainUnknown, Message: "never heard of it"}

	assert.True(t, IsUserRejected(rejected))
	assert.False(t, IsUserRejected(unknown))
	assert.True(t, IsChainUnknown(unknown))
	assert.False(t, IsChainUnknown(rejected))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("switch failed: %w", rejected)
	assert.True(t, IsUserRejected(wrapped))

	assert.False(t, IsUserRejected(errors.New("plain")))
	assert.False(t, IsChainUnknown(nil))
}
