package console

import (
	"errors"

	"github.com/atinyakov/GophGate/internal/complexity"
	"github.com/atinyakov/GophGate/internal/models"
	"github.com/atinyakov/GophGate/internal/repository"
	"github.com/atinyakov/GophGate/internal/service"
)

// GateReporter renders gate notices and final errors.
type GateReporter struct {
	p *Printer
}

var _ service.Notifier = (*GateReporter)(nil)

// NewGateReporter returns a reporter printing through p.
func NewGateReporter(p *Printer) *GateReporter {
	return &GateReporter{p: p}
}

// Notify prints one line (or a short block) per gate event.
func (r *GateReporter) Notify(n service.Notice) {
	switch n.Event {
	case service.EventEnrolled:
		r.p.Success("Secret set. Its checksum was written to the record.")
	case service.EventGranted:
		r.p.Success("Access granted.")
	case service.EventWrongSecret:
		r.p.Warning("Wrong secret. Attempts left: %d", n.AttemptsLeft)
	case service.EventExhausted:
		r.p.Alert("Too many wrong attempts. The record is now %s.", models.BlockedToken)
	case service.EventDenied:
		r.p.Error("The record is locked (%s). Ask an administrator to reset it.", models.BlockedToken)
	case service.EventWeakSecret:
		r.weak(n.Complexity)
	}
}

func (r *GateReporter) weak(rep complexity.Report) {
	r.p.Error("The secret does not meet the complexity requirements.")
	if rep.TooShort() {
		r.p.Plain("    length %d, at least %d characters required\n", rep.Length, complexity.MinLength)
	}
	if missing := rep.Missing(); len(missing) > 0 {
		var set complexity.Category
		for _, m := range missing {
			set |= m
		}
		r.p.Plain("    missing: %s\n", set)
	}
	r.p.Plain("    The record still holds %s; run again to choose another secret.\n", models.MagicToken)
}

// Failure prints the message for an error that ended the gate before a
// terminal event was reported. Errors already reported as events are
// skipped.
func (r *GateReporter) Failure(path string, err error) {
	switch {
	case err == nil,
		errors.Is(err, service.ErrDenied),
		errors.Is(err, service.ErrExhausted),
		errors.Is(err, service.ErrWeakSecret):
		return
	case errors.Is(err, repository.ErrNotFound):
		r.p.Error("Record file not found: %s", path)
		r.p.Plain("    Create it with the single word %s inside to set a secret on first run.\n", models.MagicToken)
	case errors.Is(err, models.ErrCorruptRecord):
		r.p.Error("Record content is not %s, %s or a checksum: %v", models.MagicToken, models.BlockedToken, err)
		r.p.Plain("    The file was left unchanged.\n")
	default:
		r.p.Error("Gate failed: %v", err)
	}
}
