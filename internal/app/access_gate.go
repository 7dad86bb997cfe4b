package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"talkpad/internal/bus"
	"talkpad/internal/domain"
	"talkpad/internal/vault"
)

// GateState is the access gate's current position in the challenge flow.
type GateState string

const (
	GateIdle                GateState = "idle"
	GateCheckingRequirement GateState = "checking_requirement"
	GateAwaitingChallenge   GateState = "awaiting_challenge"
	GateVerifying           GateState = "verifying"
)

var (
	// ErrNavigationPending rejects a second protected navigation while one
	// is already being gated.
	ErrNavigationPending = errors.New("another protected navigation is pending")
	// ErrNoCredential aborts navigation when the requirement is set but no
	// credential exists; the user must set one first.
	ErrNoCredential = errors.New("passcode required but none is set")
	// ErrNotVerified reports a rejected challenge attempt; retry is allowed.
	ErrNotVerified = errors.New("passcode not verified")
	// ErrStaleAttempt drops input from a prompt that no longer owns the
	// pending navigation.
	ErrStaleAttempt = errors.New("challenge attempt is no longer active")
)

// ChallengeAttempt identifies one issued passcode prompt. The ID lets the
// gate drop callbacks from a prompt that was cancelled or superseded.
type ChallengeAttempt struct {
	ID     uuid.UUID
	Target domain.SettingsDomain
}

// ChallengePrompt is the collaborator rendering the passcode dialog.
type ChallengePrompt interface {
	// Show makes the prompt visible for the attempt.
	Show(attempt ChallengeAttempt)
	// Reject tells the prompt the last candidate was wrong; it must clear
	// the input and stay visible for retry.
	Reject(attempt ChallengeAttempt)
	// Hide dismisses the prompt.
	Hide()
}

// requirementFunc re-verifies, freshly at challenge time, whether the target
// is passcode-protected and whether a credential exists.
type requirementFunc func(ctx context.Context) (requirePasscode, credentialExists bool, err error)

// AccessGate guards entry into protected screens. The pending target is held
// only between challenge issue and resolution and is always cleared before the
// gate returns to idle, so a stale navigation can never fire later. Vault
// errors during verification count as rejections: the gate fails closed.
type AccessGate struct {
	mu      sync.Mutex
	state   GateState
	attempt ChallengeAttempt

	requirement requirementFunc
	vault       vault.CredentialVault
	prompt      ChallengePrompt
	bus         bus.MessageBus
	dispatch    func(target domain.SettingsDomain)
	logger      *slog.Logger
}

func NewAccessGate(
	requirement requirementFunc,
	credentialVault vault.CredentialVault,
	prompt ChallengePrompt,
	messageBus bus.MessageBus,
	dispatch func(target domain.SettingsDomain),
	logger *slog.Logger,
) *AccessGate {
	if logger == nil {
		logger = slog.Default().With("component", "app.access_gate")
	}

	return &AccessGate{
		state:       GateIdle,
		requirement: requirement,
		vault:       credentialVault,
		prompt:      prompt,
		bus:         messageBus,
		dispatch:    dispatch,
		logger:      logger,
	}
}

func (g *AccessGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// PendingTarget returns the recorded destination of the current challenge, or
// false when none is pending.
func (g *AccessGate) PendingTarget() (domain.SettingsDomain, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.attempt.ID == uuid.Nil {
		return "", false
	}

	return g.attempt.Target, true
}

// Request starts gating a navigation into target. Unprotected targets are
// dispatched immediately; protected ones either issue a challenge or abort
// when no credential exists.
func (g *AccessGate) Request(ctx context.Context, target domain.SettingsDomain) error {
	g.mu.Lock()
	if g.state != GateIdle {
		g.mu.Unlock()

		return ErrNavigationPending
	}
	g.state = GateCheckingRequirement
	g.mu.Unlock()

	required, credentialExists, err := g.requirement(ctx)
	if err != nil {
		// Requirement unknown: assume protected with no usable credential.
		g.logger.Warn("requirement check failed, failing closed", "target", target, "error", err)
		required = true
		credentialExists = false
	}
	if ctx.Err() != nil {
		g.toIdle()

		return fmt.Errorf("gate request for %s: %w", target, ctx.Err())
	}

	if !required {
		g.toIdle()
		g.publishOutcome(target, AccessOpenUnprotected)
		g.dispatch(target)

		return nil
	}

	if !credentialExists {
		g.toIdle()
		g.logger.Warn("protected navigation blocked, no credential set", "target", target)
		g.publishOutcome(target, AccessBlockedNoCredential)

		return ErrNoCredential
	}

	attempt := ChallengeAttempt{ID: uuid.New(), Target: target}
	g.mu.Lock()
	g.state = GateAwaitingChallenge
	g.attempt = attempt
	g.mu.Unlock()
	g.logger.Info("passcode challenge issued", "target", target, "attempt_id", attempt.ID)
	g.prompt.Show(attempt)

	return nil
}

// Submit verifies a candidate passcode for the identified attempt. A match
// dispatches the deferred navigation and returns the gate to idle; a mismatch
// or vault error keeps the challenge open for retry, without limit.
func (g *AccessGate) Submit(ctx context.Context, attemptID uuid.UUID, candidate string) error {
	g.mu.Lock()
	if g.state != GateAwaitingChallenge || g.attempt.ID != attemptID {
		g.mu.Unlock()

		return ErrStaleAttempt
	}
	g.state = GateVerifying
	attempt := g.attempt
	g.mu.Unlock()

	verified, err := g.vault.Verify(ctx, candidate)
	if err != nil {
		g.logger.Warn("vault verification error, treating as rejected", "error", err)
		verified = false
	}

	g.mu.Lock()
	if g.state != GateVerifying || g.attempt.ID != attempt.ID {
		// Cancelled or suspended while the vault call was in flight.
		g.mu.Unlock()

		return ErrStaleAttempt
	}
	if !verified {
		g.state = GateAwaitingChallenge
		g.mu.Unlock()
		g.logger.Info("passcode rejected", "target", attempt.Target)
		g.prompt.Reject(attempt)
		g.publishOutcome(attempt.Target, AccessRejected)

		return ErrNotVerified
	}
	g.state = GateIdle
	g.attempt = ChallengeAttempt{}
	g.mu.Unlock()

	g.prompt.Hide()
	g.logger.Info("passcode verified", "target", attempt.Target)
	g.publishOutcome(attempt.Target, AccessVerified)
	g.dispatch(attempt.Target)

	return nil
}

// Cancel dismisses the identified challenge and discards its deferred
// navigation.
func (g *AccessGate) Cancel(attemptID uuid.UUID) {
	g.mu.Lock()
	if (g.state != GateAwaitingChallenge && g.state != GateVerifying) || g.attempt.ID != attemptID {
		g.mu.Unlock()

		return
	}
	target := g.attempt.Target
	g.state = GateIdle
	g.attempt = ChallengeAttempt{}
	g.mu.Unlock()

	g.prompt.Hide()
	g.logger.Info("passcode challenge cancelled", "target", target)
	g.publishOutcome(target, AccessCancelled)
}

// Suspend clears any pending challenge when the app goes to the background so
// the recorded target cannot fire after resume.
func (g *AccessGate) Suspend() {
	g.mu.Lock()
	if g.attempt.ID == uuid.Nil {
		g.mu.Unlock()

		return
	}
	target := g.attempt.Target
	g.state = GateIdle
	g.attempt = ChallengeAttempt{}
	g.mu.Unlock()

	g.prompt.Hide()
	g.logger.Info("passcode challenge dropped on suspend", "target", target)
	g.publishOutcome(target, AccessCancelled)
}

func (g *AccessGate) toIdle() {
	g.mu.Lock()
	g.state = GateIdle
	g.attempt = ChallengeAttempt{}
	g.mu.Unlock()
}

func (g *AccessGate) publishOutcome(target domain.SettingsDomain, decision AccessDecision) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(TopicAccessDecision, AccessOutcome{Target: target, Decision: decision})
}
