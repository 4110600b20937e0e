package watcher

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalpets/dognft/internal/chain/sim"
	"github.com/digitalpets/dognft/internal/faults"
	"github.com/digitalpets/dognft/internal/token"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

// fakeClock never fires unless the test releases its timeout channel.
type fakeClock struct {
	ch chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ch: make(chan time.Time)}
}

func (f *fakeClock) After(time.Duration) <-chan time.Time { return f.ch }

func (f *fakeClock) fire() { f.ch <- time.Time{} }

func newWatcher(ledger *sim.Ledger, clock Clock) *Watcher {
	return New(headReader{ledger}, Config{Clock: clock}, nil)
}

type headReader struct {
	ledger *sim.Ledger
}

func (h headReader) BlockNumber(ctx context.Context) (uint64, error) {
	return h.ledger.Head(), nil
}

func TestAwaitMintResolvesBacklogEvent(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	w := newWatcher(ledger, newFakeClock())

	price, err := token.ParseNative(token.DefaultMintPrice)
	require.NoError(t, err)
	hash, err := nft.MintNft(ctx, uint8(token.BabyPug), price)
	require.NoError(t, err)

	// The event landed before the watch was installed; the look-back
	// window must still observe it.
	conf, err := w.AwaitMint(ctx, nft, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), conf.TokenID)
	assert.Equal(t, hash, conf.TxHash)
	require.NotNil(t, conf.Receipt)
	assert.Equal(t, 0, ledger.MintedListenerCount(), "subscription must detach after resolution")
}

func TestAwaitMintResolvesLiveEvent(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	w := newWatcher(ledger, newFakeClock())

	type result struct {
		conf *Confirmation
		err  error
	}
	done := make(chan result, 1)
	go func() {
		conf, err := w.AwaitMint(ctx, nft, alice)
		done <- result{conf, err}
	}()

	// Wait for the watch to attach, then mint.
	require.Eventually(t, func() bool { return ledger.MintedListenerCount() == 1 },
		time.Second, time.Millisecond)

	price, err := token.ParseNative(token.DefaultMintPrice)
	require.NoError(t, err)
	_, err = nft.MintNft(ctx, uint8(token.BabyShibaInu), price)
	require.NoError(t, err)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, uint64(0), res.conf.TokenID)
	assert.Equal(t, 0, ledger.MintedListenerCount())
}

func TestAwaitMintIgnoresOtherAccounts(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	clock := newFakeClock()
	w := newWatcher(ledger, clock)

	done := make(chan error, 1)
	go func() {
		_, err := w.AwaitMint(ctx, nft, alice)
		done <- err
	}()
	require.Eventually(t, func() bool { return ledger.MintedListenerCount() == 1 },
		time.Second, time.Millisecond)

	// A mint by someone else must not resolve alice's wait.
	ledger.InjectMinted(7, bob, ledger.Head()+1)
	clock.fire()

	err := <-done
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.EventWatchTimeout))
	assert.Equal(t, 0, ledger.MintedListenerCount(), "subscription must detach after timeout")
}

func TestAwaitMintDiscardsStaleEvents(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	clock := newFakeClock()
	w := newWatcher(ledger, clock)

	// An event exactly at the look-back edge (head - tolerance) is stale.
	ledger.InjectMinted(3, alice, 100-DefaultTolerance)

	done := make(chan error, 1)
	go func() {
		_, err := w.AwaitMint(ctx, nft, alice)
		done <- err
	}()
	require.Eventually(t, func() bool { return ledger.MintedListenerCount() == 1 },
		time.Second, time.Millisecond)
	clock.fire()

	err := <-done
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.EventWatchTimeout))
}

func TestAwaitMintAcceptsEventJustInsideWindow(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	w := newWatcher(ledger, newFakeClock())

	// One block above the edge is inside the window.
	hash := ledger.InjectMinted(3, alice, 100-DefaultTolerance+1)

	conf, err := w.AwaitMint(ctx, nft, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), conf.TokenID)
	assert.Equal(t, hash, conf.TxHash)
}

func TestAwaitMintTimeoutClassification(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	clock := newFakeClock()
	w := newWatcher(ledger, clock)

	done := make(chan error, 1)
	go func() {
		_, err := w.AwaitMint(ctx, nft, alice)
		done <- err
	}()
	require.Eventually(t, func() bool { return ledger.MintedListenerCount() == 1 },
		time.Second, time.Millisecond)
	clock.fire()

	err := <-done
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.EventWatchTimeout))
	assert.NotEmpty(t, faults.GetRecoveryHint(err))
}

func TestAwaitMintContextCancellation(t *testing.T) {
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	w := newWatcher(ledger, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := w.AwaitMint(ctx, nft, alice)
		done <- err
	}()
	require.Eventually(t, func() bool { return ledger.MintedListenerCount() == 1 },
		time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ledger.MintedListenerCount())
}

func TestAwaitEvolutionMatchesTokenID(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	clock := newFakeClock()
	w := newWatcher(ledger, clock)

	done := make(chan error, 1)
	go func() {
		_, err := w.AwaitEvolution(ctx, nft, 5)
		done <- err
	}()
	require.Eventually(t, func() bool { return ledger.EvolvedListenerCount() == 1 },
		time.Second, time.Millisecond)

	// Evolution of a different token must not resolve the wait.
	ledger.InjectEvolved(4, ledger.Head()+1)
	clock.fire()

	err := <-done
	require.Error(t, err)
	assert.True(t, faults.IsKind(err, faults.EventWatchTimeout))
	assert.Equal(t, 0, ledger.EvolvedListenerCount())
}

func TestAwaitEvolutionResolvesBacklogEvent(t *testing.T) {
	ctx := context.Background()
	ledger := sim.NewLedger(100)
	nft := ledger.Bind(alice)
	w := newWatcher(ledger, newFakeClock())

	hash := ledger.InjectEvolved(5, 101)

	conf, err := w.AwaitEvolution(ctx, nft, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), conf.TokenID)
	assert.Equal(t, hash, conf.TxHash)
	assert.Equal(t, 0, ledger.EvolvedListenerCount())
}

func TestWatcherDefaults(t *testing.T) {
	w := New(headReader{sim.NewLedger(0)}, Config{}, nil)
	assert.Equal(t, uint64(DefaultTolerance), w.tolerance)
	assert.Equal(t, DefaultTimeout, w.timeout)
	assert.NotNil(t, w.clock)
}

func TestStartBlockUnderflow(t *testing.T) {
	w := New(headReader{sim.NewLedger(2)}, Config{}, nil)
	start, err := w.startBlock(context.Background())
	require.NoError(t, err)
	assert.Zero(t, start, "head below tolerance clamps the window at genesis")
}
