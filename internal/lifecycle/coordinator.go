// Package lifecycle composes the session, submitter, watcher, and
// metadata layers into the two end-to-end flows: mint-then-confirm and
// evolve-then-confirm.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/digitalpets/dognft/internal/faults"
	"github.com/digitalpets/dognft/internal/metadata"
	"github.com/digitalpets/dognft/internal/session"
	"github.com/digitalpets/dognft/internal/submitter"
	"github.com/digitalpets/dognft/internal/token"
	"github.com/digitalpets/dognft/internal/watcher"
)

// Phase is a step in a mint or evolve flow.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseSubmitting    Phase = "submitting"
	PhaseAwaitingEvent Phase = "awaiting_event"
	PhaseConfirmed     Phase = "confirmed"
	PhaseFailed        Phase = "failed"
	PhaseTimedOut      Phase = "timed_out"
)

// ErrNotConnected is returned when a flow is started without a session.
var ErrNotConnected = errors.New("no active session, connect a wallet first")

// ErrAlreadyEvolved is the client-side gate against submitting an evolve
// for a token already known to be evolved. The ledger remains the
// authority and rejects redundant evolutions independently.
var ErrAlreadyEvolved = errors.New("token is already evolved")

// Outcome is the result of a mint or evolve flow.
type Outcome struct {
	Phase    Phase
	TokenID  uint64
	TokenURI string
	Metadata *token.Metadata
	TxHash   common.Hash
	// Warning carries the non-fatal degradation message for timed-out
	// waits and failed metadata fetches.
	Warning string
}

// Listing is a displayable token: mint-type entries and owned tokens.
type Listing struct {
	TokenID  uint64
	DogType  token.DogType
	URI      string
	Evolved  bool
	Metadata *token.Metadata
}

// Coordinator drives the composite flows.
type Coordinator struct {
	sessions *session.Manager
	submit   *submitter.Submitter
	watch    *watcher.Watcher
	fetch    *metadata.Fetcher
	logger   log.Logger
}

// New creates a Coordinator.
func New(sessions *session.Manager, submit *submitter.Submitter, watch *watcher.Watcher, fetch *metadata.Fetcher, logger log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Coordinator{
		sessions: sessions,
		submit:   submit,
		watch:    watch,
		fetch:    fetch,
		logger:   logger,
	}
}

func (c *Coordinator) active() (*session.Session, error) {
	s := c.sessions.Current()
	if s == nil {
		return nil, ErrNotConnected
	}
	return s, nil
}

// Mint runs the mint-then-confirm flow for the given dog type.
//
// Phases: Idle → Submitting → AwaitingEvent → Confirmed | Failed |
// TimedOut. An unknown or unmintable type fails before any provider
// call. A watch timeout is returned as a non-fatal Outcome, not an
// error, since the transaction may still land.
func (c *Coordinator) Mint(ctx context.Context, dogType token.DogType) (*Outcome, error) {
	if !dogType.IsValid() || !dogType.IsMintable() {
		return nil, faults.New(faults.InvalidDogType,
			fmt.Sprintf("%s is not a mintable dog type", dogType)).
			WithHint("choose one of the baby types: " + mintableNames())
	}

	s, err := c.active()
	if err != nil {
		return nil, err
	}

	c.logger.Info("mint flow starting", "dog_type", dogType.String(), "phase", PhaseSubmitting)
	price, err := s.Contract.MintPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("query mint price: %w", err)
	}

	res, err := c.submit.Mint(ctx, s.Contract, dogType, price)
	if err != nil {
		c.logger.Error("mint flow failed", "phase", PhaseFailed, "err", err)
		return nil, err
	}

	c.logger.Info("mint submitted", "tx", res.TxHash.Hex(), "phase", PhaseAwaitingEvent)
	conf, err := c.watch.AwaitMint(ctx, s.Contract, s.Account)
	if err != nil {
		if faults.IsKind(err, faults.EventWatchTimeout) {
			c.logger.Warn("mint flow timed out", "phase", PhaseTimedOut)
			return &Outcome{Phase: PhaseTimedOut, TxHash: res.TxHash, Warning: faults.GetUserMessage(err)}, nil
		}
		return nil, err
	}

	out := &Outcome{
		Phase:   PhaseConfirmed,
		TokenID: conf.TokenID,
		TxHash:  conf.TxHash,
	}
	c.resolveDisplay(ctx, s, out)
	c.logger.Info("mint flow confirmed", "token_id", out.TokenID, "phase", PhaseConfirmed)
	return out, nil
}

// Evolve runs the evolve-then-confirm flow for the given token.
func (c *Coordinator) Evolve(ctx context.Context, tokenID uint64) (*Outcome, error) {
	s, err := c.active()
	if err != nil {
		return nil, err
	}

	id := new(big.Int).SetUint64(tokenID)
	dog, err := s.Contract.GetDog(ctx, id)
	if err == nil && dog.Evolved {
		return nil, fmt.Errorf("token %d: %w", tokenID, ErrAlreadyEvolved)
	}

	c.logger.Info("evolve flow starting", "token_id", tokenID, "phase", PhaseSubmitting)
	price, err := s.Contract.EvolvePrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("query evolve price: %w", err)
	}

	res, err := c.submit.Evolve(ctx, s.Contract, tokenID, price)
	if err != nil {
		c.logger.Error("evolve flow failed", "phase", PhaseFailed, "err", err)
		return nil, err
	}

	c.logger.Info("evolve submitted", "tx", res.TxHash.Hex(), "phase", PhaseAwaitingEvent)
	conf, err := c.watch.AwaitEvolution(ctx, s.Contract, tokenID)
	if err != nil {
		if faults.IsKind(err, faults.EventWatchTimeout) {
			c.logger.Warn("evolve flow timed out", "phase", PhaseTimedOut)
			return &Outcome{Phase: PhaseTimedOut, TokenID: tokenID, TxHash: res.TxHash, Warning: faults.GetUserMessage(err)}, nil
		}
		return nil, err
	}

	out := &Outcome{
		Phase:   PhaseConfirmed,
		TokenID: conf.TokenID,
		TxHash:  conf.TxHash,
	}
	c.resolveDisplay(ctx, s, out)
	c.logger.Info("evolve flow confirmed", "token_id", out.TokenID, "phase", PhaseConfirmed)
	return out, nil
}

// resolveDisplay fills the confirmed outcome's URI and metadata. Metadata
// failures degrade display only.
func (c *Coordinator) resolveDisplay(ctx context.Context, s *session.Session, out *Outcome) {
	uri, err := s.Contract.TokenURI(ctx, new(big.Int).SetUint64(out.TokenID))
	if err != nil {
		out.Warning = fmt.Sprintf("token confirmed, but its URI could not be read: %v", err)
		return
	}
	out.TokenURI = uri

	md, err := c.fetch.Fetch(ctx, uri)
	if err != nil {
		c.logger.Warn("metadata fetch degraded", "token_id", out.TokenID, "err", err)
		out.Warning = faults.GetUserMessage(err)
		return
	}
	out.Metadata = md
}

// AvailableMintTypes lists the mintable types with resolved metadata.
func (c *Coordinator) AvailableMintTypes(ctx context.Context) ([]Listing, error) {
	s, err := c.active()
	if err != nil {
		return nil, err
	}

	var out []Listing
	for _, dt := range token.MintableTypes() {
		uri, err := s.Contract.DogTokenURI(ctx, uint8(dt))
		if err != nil {
			return nil, fmt.Errorf("query URI for %s: %w", dt, err)
		}
		entry := Listing{DogType: dt, URI: uri}
		if md, err := c.fetch.Fetch(ctx, uri); err == nil {
			entry.Metadata = md
		} else {
			c.logger.Warn("metadata fetch degraded", "dog_type", dt.String(), "err", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// OwnedTokens lists the session account's tokens by scanning the token
// counter. The counter is a plain integer count.
func (c *Coordinator) OwnedTokens(ctx context.Context) ([]Listing, error) {
	s, err := c.active()
	if err != nil {
		return nil, err
	}

	counter, err := s.Contract.TokenCounter(ctx)
	if err != nil {
		return nil, fmt.Errorf("query token counter: %w", err)
	}

	var out []Listing
	for id := uint64(0); id < counter.Uint64(); id++ {
		bid := new(big.Int).SetUint64(id)
		owner, err := s.Contract.OwnerOf(ctx, bid)
		if err != nil {
			return nil, fmt.Errorf("query owner of token %d: %w", id, err)
		}
		if owner != s.Account {
			continue
		}

		uri, err := s.Contract.TokenURI(ctx, bid)
		if err != nil {
			return nil, fmt.Errorf("query URI of token %d: %w", id, err)
		}
		dog, err := s.Contract.GetDog(ctx, bid)
		if err != nil {
			return nil, fmt.Errorf("query dog %d: %w", id, err)
		}

		entry := Listing{
			TokenID: id,
			DogType: token.DogType(dog.DogType),
			URI:     uri,
			Evolved: dog.Evolved,
		}
		if md, err := c.fetch.Fetch(ctx, uri); err == nil {
			entry.Metadata = md
		} else {
			c.logger.Warn("metadata fetch degraded", "token_id", id, "err", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func mintableNames() string {
	names := ""
	for i, dt := range token.MintableTypes() {
		if i > 0 {
			names += ", "
		}
		names += dt.String()
	}
	return names
}
