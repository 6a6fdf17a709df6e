package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/GophGate/internal/complexity"
	"github.com/atinyakov/GophGate/internal/models"
)

var (
	// ErrWeakSecret is returned when the first secret fails the complexity check.
	ErrWeakSecret = errors.New("secret does not meet complexity requirements")
	// ErrDenied is returned for a locked record.
	ErrDenied = errors.New("access denied: record is locked")
	// ErrExhausted is returned after the last wrong guess locks the record.
	ErrExhausted = errors.New("attempts exhausted: record locked")
)

// RecordRepository defines the persistence operations required by the gate.
type RecordRepository interface {
	// Load returns the current record.
	Load(ctx context.Context) (models.CredentialRecord, error)
	// Save replaces the record.
	Save(ctx context.Context, rec models.CredentialRecord) error
}

// SecretReader supplies secrets typed by the user.
type SecretReader interface {
	// ReadSecret shows prompt and blocks until a secret is entered.
	ReadSecret(prompt string) (string, error)
}

// Notice is a user-facing report of one gate event.
type Notice struct {
	Event Event
	// AttemptsLeft is set for EventWrongSecret.
	AttemptsLeft int
	// Complexity is set for EventWeakSecret.
	Complexity complexity.Report
}

// Notifier renders notices for the user.
type Notifier interface {
	Notify(Notice)
}

// Gate runs one invocation of the credential gate against a record.
type Gate struct {
	repo   RecordRepository
	input  SecretReader
	notify Notifier
	log    *zap.Logger
}

// NewGate constructs a Gate. A nil logger disables logging.
func NewGate(repo RecordRepository, input SecretReader, notify Notifier, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{repo: repo, input: input, notify: notify, log: log}
}

// Run loads the record, drives the flow to a terminal phase and persists
// every record change. It returns the terminal phase and, for every outcome
// other than PhaseGranted, an error: ErrWeakSecret, ErrDenied, ErrExhausted,
// or the repository or input failure that stopped the flow.
func (g *Gate) Run(ctx context.Context) (Phase, error) {
	rec, err := g.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, models.ErrCorruptRecord) {
			g.log.Error("credential record is corrupt", zap.Error(err))
		}
		return 0, err
	}

	state := Start(rec)
	g.log.Debug("record loaded", zap.Stringer("record", rec.State), zap.Stringer("phase", state.Phase))

	for !state.Phase.Terminal() {
		var in Input
		if state.AwaitsSecret() {
			in.Secret, err = g.input.ReadSecret(promptFor(state.Phase))
			if err != nil {
				return state.Phase, fmt.Errorf("read secret: %w", err)
			}
		}

		step, err := Advance(state, in)
		if err != nil {
			return state.Phase, err
		}
		if step.Write != nil {
			if err := g.repo.Save(ctx, *step.Write); err != nil {
				return state.Phase, err
			}
			g.log.Debug("record written", zap.Stringer("record", step.Write.State))
		}
		state = step.Next
		g.report(step)
	}

	return state.Phase, outcomeError(state.Phase)
}

func (g *Gate) report(step Step) {
	n := Notice{Event: step.Event, Complexity: step.Complexity}
	switch step.Event {
	case EventWrongSecret:
		n.AttemptsLeft = step.Next.AttemptsLeft
		g.log.Info("wrong secret", zap.Int("attempts_left", n.AttemptsLeft))
	case EventExhausted:
		g.log.Warn("attempts exhausted, record locked", zap.Int("max_attempts", MaxAttempts))
	case EventDenied:
		g.log.Warn("attempt against locked record")
	case EventWeakSecret:
		g.log.Info("weak secret rejected", zap.Stringer("missing", missingSet(step.Complexity)),
			zap.Bool("too_short", step.Complexity.TooShort()))
	}
	if g.notify != nil {
		g.notify.Notify(n)
	}
}

func promptFor(p Phase) string {
	if p == PhaseInit {
		return "Enter a new secret: "
	}
	return "Enter secret: "
}

func outcomeError(p Phase) error {
	switch p {
	case PhaseGranted:
		return nil
	case PhaseDenied:
		return ErrDenied
	case PhaseExhausted:
		return ErrExhausted
	case PhaseRejected:
		return ErrWeakSecret
	}
	return fmt.Errorf("unexpected final phase %s", p)
}

func missingSet(rep complexity.Report) complexity.Category {
	var c complexity.Category
	for _, m := range rep.Missing() {
		c |= m
	}
	return c
}
