// Command gate is a file-backed password gate.
//
// The record file holds MAGIC (no secret yet), BLOCKED (locked) or the
// checksum of the accepted secret. On MAGIC the gate asks for a new secret,
// checks its complexity and stores its checksum. On a checksum it allows
// three attempts and writes BLOCKED after the last wrong one.
package main

import (
	"cmp"
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/GophGate/internal/client/console"
	"github.com/atinyakov/GophGate/internal/config"
	"github.com/atinyakov/GophGate/internal/logger"
	"github.com/atinyakov/GophGate/internal/models"
	"github.com/atinyakov/GophGate/internal/repository"
	"github.com/atinyakov/GophGate/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// Exit codes. Success and failure are what matters to a calling shell; the
// distinct failure codes are a convenience.
const (
	exitOK        = 0
	exitFailure   = 1
	exitNotFound  = 2
	exitCorrupt   = 3
	exitDenied    = 4
	exitExhausted = 5
	exitWeak      = 6
)

const pathPrompt = "Path to the record file: "

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the gate command and returns the process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := &cobra.Command{
		Use:   "gate [RECORD]",
		Short: "Check a secret against a file-backed credential record",
		Long: `Check a secret against a credential record file.

The record holds MAGIC before first use, BLOCKED after three wrong attempts,
or the checksum of the accepted secret. When RECORD is omitted the path is
asked for interactively.`,
		Version:       cmp.Or(version, "dev") + " (" + cmp.Or(buildDate, "N/A") + ")",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code = runGate(cmd.Context(), args, stdin, stdout, stderr)
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		console.NewPrinter(stderr).Error("%v", err)
		return exitFailure
	}
	return code
}

func runGate(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	printer := console.NewPrinter(stdout)

	log := logger.NewWithWriter(stderr)
	if err := log.Init(config.GateLogLevel); err != nil {
		printer.Error("init logger: %v", err)
		return exitFailure
	}
	defer func() { _ = log.Log.Sync() }()
	runLog := log.ForRun("gate")

	opts, err := config.ParseGate(args)
	if err != nil {
		printer.Error("%v", err)
		return exitFailure
	}

	prompter := console.NewPrompter(stdin, stdout)
	path, err := prompter.AskPath(opts.RecordPath, pathPrompt)
	if err != nil {
		printer.Error("Record path: %v", err)
		return exitFailure
	}

	repo := repository.NewFileRecordRepository(path)
	reporter := console.NewGateReporter(printer)
	gate := service.NewGate(repo, prompter, reporter, runLog.With(zap.String("record", path)))

	_, err = gate.Run(ctx)
	reporter.Failure(path, err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, repository.ErrNotFound):
		return exitNotFound
	case errors.Is(err, models.ErrCorruptRecord):
		return exitCorrupt
	case errors.Is(err, service.ErrDenied):
		return exitDenied
	case errors.Is(err, service.ErrExhausted):
		return exitExhausted
	case errors.Is(err, service.ErrWeakSecret):
		return exitWeak
	default:
		return exitFailure
	}
}
