package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureError(t *testing.T) {
	plain := New(LedgerRejection, "DigitalNft__InvalidOwner()")
	assert.Equal(t, "DigitalNft__InvalidOwner()", plain.Error())

	cause := errors.New("execution reverted")
	wrapped := Wrap(LedgerRejection, "mint rejected", cause)
	assert.Equal(t, "mint rejected: execution reverted", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestIsKind(t *testing.T) {
	err := New(EventWatchTimeout, "timed out")
	assert.True(t, IsKind(err, EventWatchTimeout))
	assert.False(t, IsKind(err, LedgerRejection))

	// Kind survives further wrapping.
	outer := fmt.Errorf("mint flow: %w", err)
	assert.True(t, IsKind(outer, EventWatchTimeout))

	assert.False(t, IsKind(errors.New("plain"), EventWatchTimeout))
	assert.False(t, IsKind(nil, EventWatchTimeout))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, UserRejectedSwitch, KindOf(New(UserRejectedSwitch, "declined")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestGetUserMessage(t *testing.T) {
	err := New(NoProviderAvailable, "no wallet provider is available")
	assert.Equal(t, "no wallet provider is available", GetUserMessage(err))

	outer := fmt.Errorf("connect: %w", err)
	assert.Equal(t, "no wallet provider is available", GetUserMessage(outer))

	assert.Equal(t, "plain", GetUserMessage(errors.New("plain")))
	assert.Equal(t, "", GetUserMessage(nil))
}

func TestGetRecoveryHint(t *testing.T) {
	err := New(EventWatchTimeout, "timed out").WithHint("check your NFTs again shortly")
	assert.Equal(t, "check your NFTs again shortly", GetRecoveryHint(err))
	assert.Equal(t, "", GetRecoveryHint(New(EventWatchTimeout, "timed out")))
	assert.Equal(t, "", GetRecoveryHint(errors.New("plain")))
	assert.Equal(t, "", GetRecoveryHint(nil))
}

func TestShouldSilenceUsage(t *testing.T) {
	assert.True(t, ShouldSilenceUsage(New(InvalidDogType, "bad type")))
	assert.True(t, ShouldSilenceUsage(fmt.Errorf("wrapped: %w", New(InvalidDogType, "bad type"))))
	assert.False(t, ShouldSilenceUsage(errors.New("plain")))
	assert.False(t, ShouldSilenceUsage(nil))
}
