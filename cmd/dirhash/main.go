// Command dirhash records the checksums of every file in a directory tree in
// a sidecar manifest and reports what changed on later runs.
package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/GophGate/internal/client/console"
	"github.com/atinyakov/GophGate/internal/config"
	"github.com/atinyakov/GophGate/internal/logger"
	"github.com/atinyakov/GophGate/internal/repository"
	"github.com/atinyakov/GophGate/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const dirPrompt = "Directory to scan: "

func main() {
	if err := execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs the dirhash command. A returned error has already been
// printed to stderr.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := &config.Scan{}
	cmd := &cobra.Command{
		Use:   "dirhash [DIR]",
		Short: "Detect changed files against a checksum manifest",
		Long: `Detect changed files against a checksum manifest.

The first run writes the manifest into DIR. Later runs list added, removed
and changed files; --update stores the new state afterwards.`,
		Version:       cmp.Or(version, "dev") + " (" + cmp.Or(buildDate, "N/A") + ")",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			return runScan(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}
	opts.Bind(cmd.Flags())
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		console.NewPrinter(stderr).Error("%v", err)
		return err
	}
	return nil
}

func runScan(ctx context.Context, opts *config.Scan, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	log := logger.NewWithWriter(stderr)
	if err := log.Init(opts.LogLevel); err != nil {
		return err
	}
	defer func() { _ = log.Log.Sync() }()

	var err error
	if opts.Dir, err = console.NewPrompter(stdin, stdout).AskPath(opts.Dir, dirPrompt); err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.Dir)
	}

	store := repository.NewManifestRepository(opts.SidecarPath())
	runLog := log.ForRun("dirhash").With(zap.String("root", opts.Dir))
	res, err := service.NewScanner(opts.Dir, store, opts.Workers, runLog).Run(ctx, opts.Update)
	if err != nil {
		return err
	}

	report(console.NewPrinter(stdout), store.Path(), res, opts.Update)
	return nil
}

func report(p *console.Printer, sidecar string, res service.ScanResult, update bool) {
	if res.FirstRun {
		p.Success("Manifest created: %s (%d files)", sidecar, len(res.Snapshot.Files))
	} else if res.Changes.Empty() {
		p.Success("No changes (%d files)", len(res.Snapshot.Files))
	} else {
		for _, path := range res.Changes.Removed {
			p.Alert("removed: %s", path)
		}
		for _, path := range res.Changes.Changed {
			p.Warning("changed: %s", path)
		}
		for _, path := range res.Changes.Added {
			p.Info("added:   %s", path)
		}
		if update {
			p.Success("Manifest updated: %s", sidecar)
		}
	}
	for _, s := range res.Snapshot.Skipped {
		p.Error("skipped: %s: %v", s.Path, s.Err)
	}
}
