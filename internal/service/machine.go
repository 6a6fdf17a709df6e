// Package service provides the credential gate and the directory integrity
// scanner, delegating persistence to repository interfaces.
package service

import (
	"errors"
	"fmt"

	"github.com/atinyakov/GophGate/internal/checksum"
	"github.com/atinyakov/GophGate/internal/complexity"
	"github.com/atinyakov/GophGate/internal/models"
)

// MaxAttempts is the number of guesses allowed per verify flow.
const MaxAttempts = 3

// ErrTerminalState is returned when Advance is called on a finished flow.
var ErrTerminalState = errors.New("gate flow already finished")

// Phase is a state of the lockout machine.
type Phase uint8

const (
	// PhaseInit waits for the first secret of an uninitialized record.
	PhaseInit Phase = iota + 1
	// PhaseBlocked is a locked record; it resolves to PhaseDenied.
	PhaseBlocked
	// PhaseVerifying waits for a guess against the stored checksum.
	PhaseVerifying
	// PhaseGranted is the successful terminal state.
	PhaseGranted
	// PhaseDenied is the terminal state of a locked record.
	PhaseDenied
	// PhaseExhausted is reached after the last wrong guess.
	PhaseExhausted
	// PhaseRejected is reached when the first secret is too weak.
	PhaseRejected
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseBlocked:
		return "blocked"
	case PhaseVerifying:
		return "verifying"
	case PhaseGranted:
		return "granted"
	case PhaseDenied:
		return "denied"
	case PhaseExhausted:
		return "exhausted"
	case PhaseRejected:
		return "rejected"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Terminal reports whether the flow has finished.
func (p Phase) Terminal() bool {
	return p >= PhaseGranted
}

// State is the full state of one gate flow.
type State struct {
	Phase Phase
	// Stored is the checksum being verified against in PhaseVerifying.
	Stored uint16
	// AttemptsLeft counts remaining guesses in PhaseVerifying.
	AttemptsLeft int
}

// AwaitsSecret reports whether the next Advance needs a secret from the user.
func (s State) AwaitsSecret() bool {
	return s.Phase == PhaseInit || s.Phase == PhaseVerifying
}

// Event is what a step reports to the user.
type Event uint8

const (
	// EventEnrolled: a new secret was accepted and stored.
	EventEnrolled Event = iota + 1
	// EventWeakSecret: the first secret failed the complexity check.
	EventWeakSecret
	// EventGranted: the guess matched the stored checksum.
	EventGranted
	// EventWrongSecret: the guess did not match and attempts remain.
	EventWrongSecret
	// EventExhausted: the last attempt failed and the record gets locked.
	EventExhausted
	// EventDenied: the record is locked.
	EventDenied
)

func (e Event) String() string {
	switch e {
	case EventEnrolled:
		return "enrolled"
	case EventWeakSecret:
		return "weak_secret"
	case EventGranted:
		return "granted"
	case EventWrongSecret:
		return "wrong_secret"
	case EventExhausted:
		return "exhausted"
	case EventDenied:
		return "denied"
	default:
		return fmt.Sprintf("Event(%d)", uint8(e))
	}
}

// Input is the user event fed to Advance.
type Input struct {
	Secret string
}

// Step is the result of one transition.
type Step struct {
	// Next is the state after the transition.
	Next State
	// Write is the record to persist, or nil when the record stays as is.
	Write *models.CredentialRecord
	// Event is what happened.
	Event Event
	// Complexity is set for EventWeakSecret.
	Complexity complexity.Report
}

// Start returns the initial state for a loaded record.
func Start(rec models.CredentialRecord) State {
	switch rec.State {
	case models.Uninitialized:
		return State{Phase: PhaseInit}
	case models.Locked:
		return State{Phase: PhaseBlocked}
	default:
		return State{Phase: PhaseVerifying, Stored: rec.Checksum, AttemptsLeft: MaxAttempts}
	}
}

// Advance applies in to s. It performs no I/O; persisting Step.Write is the
// caller's job. The input is ignored in PhaseBlocked.
func Advance(s State, in Input) (Step, error) {
	switch s.Phase {
	case PhaseInit:
		rep := complexity.Check(in.Secret)
		if !rep.OK() {
			return Step{Next: State{Phase: PhaseRejected}, Event: EventWeakSecret, Complexity: rep}, nil
		}
		rec := models.NewActive(checksum.String(in.Secret))
		return Step{Next: State{Phase: PhaseGranted}, Write: &rec, Event: EventEnrolled}, nil

	case PhaseBlocked:
		return Step{Next: State{Phase: PhaseDenied}, Event: EventDenied}, nil

	case PhaseVerifying:
		if checksum.String(in.Secret) == s.Stored {
			return Step{Next: State{Phase: PhaseGranted}, Event: EventGranted}, nil
		}
		left := s.AttemptsLeft - 1
		if left > 0 {
			return Step{Next: State{Phase: PhaseVerifying, Stored: s.Stored, AttemptsLeft: left}, Event: EventWrongSecret}, nil
		}
		rec := models.NewLocked()
		return Step{Next: State{Phase: PhaseExhausted}, Write: &rec, Event: EventExhausted}, nil
	}
	return Step{}, fmt.Errorf("%w: %s", ErrTerminalState, s.Phase)
}
