package sim

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalpets/dognft/internal/contract"
	"github.com/digitalpets/dognft/internal/token"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func mintPrice(t *testing.T) *big.Int {
	t.Helper()
	p, err := token.ParseNative(token.DefaultMintPrice)
	require.NoError(t, err)
	return p
}

func evolvePrice(t *testing.T) *big.Int {
	t.Helper()
	p, err := token.ParseNative(token.DefaultEvolvePrice)
	require.NoError(t, err)
	return p
}

func TestLedgerMintAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(100)
	nft := ledger.Bind(alice)

	for i := 0; i < 3; i++ {
		_, err := nft.MintNft(ctx, uint8(token.BabyPug), mintPrice(t))
		require.NoError(t, err)
	}

	counter, err := nft.TokenCounter(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counter.Int64())

	owned := nft.Owned()
	require.Len(t, owned, 3)
	for i, tok := range owned {
		assert.Equal(t, uint64(i), tok.ID)
		assert.False(t, tok.Evolved)
	}

	// Each mint advances the head by one block.
	assert.Equal(t, uint64(103), ledger.Head())
}

func TestLedgerMintGating(t *testing.T) {
	ctx := context.Background()
	nft := NewLedger(0).Bind(alice)

	_, err := nft.MintNft(ctx, uint8(token.AdultPug), mintPrice(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ReasonInvalidMintType)

	short := new(big.Int).Sub(mintPrice(t), big.NewInt(1))
	_, err = nft.MintNft(ctx, uint8(token.BabyPug), short)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ReasonInsufficientETH)

	_, err = nft.MintNft(ctx, uint8(token.BabyPug), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ReasonInsufficientETH)

	counter, err := nft.TokenCounter(ctx)
	require.NoError(t, err)
	assert.Zero(t, counter.Int64(), "rejected mints must not create tokens")
}

func TestLedgerEvolve(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(0)
	nft := ledger.Bind(alice)

	_, err := nft.MintNft(ctx, uint8(token.BabyShibaInu), mintPrice(t))
	require.NoError(t, err)

	_, err = nft.Evolve(ctx, big.NewInt(0), evolvePrice(t))
	require.NoError(t, err)

	dog, err := nft.GetDog(ctx, big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, dog.Evolved)
	assert.Equal(t, uint8(token.AdultShibaInu), dog.DogType)

	uri, err := nft.TokenURI(ctx, big.NewInt(0))
	require.NoError(t, err)
	adultURI, err := nft.DogTokenURI(ctx, uint8(token.AdultShibaInu))
	require.NoError(t, err)
	assert.Equal(t, adultURI, uri)
}

func TestLedgerEvolveGating(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(0)
	owner := ledger.Bind(alice)
	stranger := ledger.Bind(bob)

	_, err := owner.MintNft(ctx, uint8(token.BabyPug), mintPrice(t))
	require.NoError(t, err)

	tests := []struct {
		name    string
		nft     *Contract
		tokenID *big.Int
		value   *big.Int
		reason  string
	}{
		{"insufficient payment", owner, big.NewInt(0), big.NewInt(1), ReasonInsufficientETH},
		{"unknown token", owner, big.NewInt(7), evolvePrice(t), ReasonInvalidTokenID},
		{"not the owner", stranger, big.NewInt(0), evolvePrice(t), ReasonInvalidOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.nft.Evolve(ctx, tt.tokenID, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}

	// Evolution is one-way and at most once.
	_, err = owner.Evolve(ctx, big.NewInt(0), evolvePrice(t))
	require.NoError(t, err)
	_, err = owner.Evolve(ctx, big.NewInt(0), evolvePrice(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ReasonNftAlreadyEvolved)
}

func TestLedgerReceipts(t *testing.T) {
	ctx := context.Background()
	nft := NewLedger(50).Bind(alice)

	hash, err := nft.MintNft(ctx, uint8(token.BabyPug), mintPrice(t))
	require.NoError(t, err)

	receipt, err := nft.WaitMined(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, hash, receipt.TxHash)
	assert.Equal(t, int64(51), receipt.BlockNumber.Int64())

	_, err = nft.WaitMined(ctx, common.HexToHash("0xdead"))
	assert.Error(t, err)
}

func TestLedgerEventDelivery(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(10)
	nft := ledger.Bind(alice)

	sink := make(chan contract.MintedEvent, 4)
	sub, err := nft.WatchMinted(ctx, sink)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.MintedListenerCount())

	_, err = nft.MintNft(ctx, uint8(token.BabyStBernard), mintPrice(t))
	require.NoError(t, err)

	ev := <-sink
	assert.Equal(t, int64(0), ev.TokenID.Int64())
	assert.Equal(t, alice, ev.Requester)
	assert.Equal(t, uint64(11), ev.Raw.BlockNumber)

	sub.Unsubscribe()
	assert.Equal(t, 0, ledger.MintedListenerCount())
}

func TestLedgerFilterEvents(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(10)
	nft := ledger.Bind(alice)

	_, err := nft.MintNft(ctx, uint8(token.BabyPug), mintPrice(t)) // block 11
	require.NoError(t, err)
	_, err = nft.MintNft(ctx, uint8(token.BabyPug), mintPrice(t)) // block 12
	require.NoError(t, err)

	all, err := nft.FilterMinted(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	recent, err := nft.FilterMinted(ctx, 12)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(1), recent[0].TokenID.Int64())

	none, err := nft.FilterMinted(ctx, 13)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLedgerInjectMinted(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(10)
	nft := ledger.Bind(alice)

	sink := make(chan contract.MintedEvent, 1)
	sub, err := nft.WatchMinted(ctx, sink)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	hash := ledger.InjectMinted(9, bob, 8)
	ev := <-sink
	assert.Equal(t, int64(9), ev.TokenID.Int64())
	assert.Equal(t, bob, ev.Requester)
	assert.Equal(t, uint64(8), ev.Raw.BlockNumber)
	assert.Equal(t, hash, ev.Raw.TxHash)

	receipt, err := nft.WaitMined(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, int64(8), receipt.BlockNumber.Int64())
}
