// Package faults classifies lower-layer failures into the fixed set of
// kinds the presentation layer handles. Nothing crosses into the CLI as
// an opaque error; every failure is wrapped in a Failure carrying its
// kind, a user-facing message, and an optional recovery hint.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies a failure category.
type Kind string

const (
	// NoProviderAvailable: no provider capability in the host environment.
	NoProviderAvailable Kind = "no_provider_available"
	// ChainUnknownToProvider: switch-chain failed because the provider has
	// no descriptor for the target chain. Recoverable via add-chain.
	ChainUnknownToProvider Kind = "chain_unknown_to_provider"
	// UserRejectedSwitch: the user declined the switch request. Terminal
	// for that attempt; never retried automatically.
	UserRejectedSwitch Kind = "user_rejected_switch"
	// LedgerRejection: the contract rejected the call. The reason string
	// is surfaced verbatim.
	LedgerRejection Kind = "ledger_rejection"
	// EventWatchTimeout: no confirming event arrived before the deadline.
	// Non-fatal; the underlying transaction may still succeed.
	EventWatchTimeout Kind = "event_watch_timeout"
	// MetadataFetchFailure: off-chain metadata could not be retrieved.
	// Degrades display only.
	MetadataFetchFailure Kind = "metadata_fetch_failure"
	// InvalidDogType: the requested type is not a mintable enum member.
	// Rejected client-side before any provider call.
	InvalidDogType Kind = "invalid_dog_type"
)

// UserFacingError is implemented by errors carrying a message meant for
// direct display to the user.
type UserFacingError interface {
	error
	UserMessage() string
}

// RecoverableError is implemented by errors that suggest a recovery action.
type RecoverableError interface {
	error
	RecoveryHint() string
}

// SilenceUsageError is implemented by errors that should not trigger CLI
// usage output; the command syntax was fine, something else failed.
type SilenceUsageError interface {
	error
	ShouldSilenceUsage() bool
}

// Failure is a classified error.
type Failure struct {
	Kind    Kind
	Message string
	Hint    string
	Cause   error
}

// New creates a Failure of the given kind.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Wrap creates a Failure of the given kind around a cause.
func Wrap(kind Kind, message string, cause error) *Failure {
	return &Failure{Kind: kind, Message: message, Cause: cause}
}

// WithHint attaches a recovery hint.
func (f *Failure) WithHint(hint string) *Failure {
	f.Hint = hint
	return f
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %v", f.Message, f.Cause)
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Cause }

// UserMessage returns the display message.
func (f *Failure) UserMessage() string { return f.Message }

// RecoveryHint returns the attached hint, if any.
func (f *Failure) RecoveryHint() string { return f.Hint }

// ShouldSilenceUsage reports true: classified failures are operational,
// not command-syntax mistakes.
func (f *Failure) ShouldSilenceUsage() bool { return true }

// IsKind reports whether err is (or wraps) a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

// KindOf returns the kind of the outermost Failure in err's chain, or ""
// when err carries no classification.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// GetUserMessage extracts a display message from an error chain, falling
// back to the plain Error string.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ufe UserFacingError
	if errors.As(err, &ufe) {
		return ufe.UserMessage()
	}
	return err.Error()
}

// GetRecoveryHint extracts a recovery hint from an error chain, or "".
func GetRecoveryHint(err error) string {
	if err == nil {
		return ""
	}
	var re RecoverableError
	if errors.As(err, &re) {
		return re.RecoveryHint()
	}
	return ""
}

// ShouldSilenceUsage reports whether err asks to suppress CLI usage output.
func ShouldSilenceUsage(err error) bool {
	if err == nil {
		return false
	}
	var sue SilenceUsageError
	if errors.As(err, &sue) {
		return sue.ShouldSilenceUsage()
	}
	return false
}
