// Command stego hides a short message in the trailing spaces of a text
// container and recovers it.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/GophGate/internal/client/console"
	"github.com/atinyakov/GophGate/internal/config"
	"github.com/atinyakov/GophGate/internal/logger"
	"github.com/atinyakov/GophGate/internal/stego"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	containerPrompt = "Path to the container file: "
	messagePrompt   = "Path to the message file: "
	inlinePrompt    = "Message text: "
)

func main() {
	if err := execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs the stego command tree. A returned error has already been
// printed to stderr.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := &cobra.Command{
		Use:           "stego",
		Short:         "Hide text in trailing spaces of a text file",
		Version:       cmp.Or(version, "dev") + " (" + cmp.Or(buildDate, "N/A") + ")",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(hideCmd(stdin, stdout, stderr), extractCmd(stdin, stdout, stderr))
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		console.NewPrinter(stderr).Error("%v", err)
		return err
	}
	return nil
}

func hideCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &config.Stego{}
	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Embed a message into a copy of the container",
		Long: `Embed a message into a copy of the container.

Every container line carries one bit: a trailing space is 1, none is 0. The
message is prefixed with its 4-byte length, so the container needs
8*(4+len(message)) lines. Inline text is encoded with --encoding; message
files are embedded byte for byte.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHide(opts, stdin, stdout, stderr)
		},
	}
	opts.BindHide(cmd.Flags())
	return cmd
}

func extractCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &config.Stego{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recover a message from a container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(opts, stdin, stdout, stderr)
		},
	}
	opts.BindExtract(cmd.Flags())
	return cmd
}

func runHide(opts *config.Stego, stdin io.Reader, stdout, stderr io.Writer) error {
	log, err := newRunLogger(opts.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	printer := console.NewPrinter(stdout)
	prompter := console.NewPrompter(stdin, stdout)

	if opts.Container, err = prompter.AskPath(opts.Container, containerPrompt); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	payload, err := loadPayload(opts, prompter)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.Container)
	if err != nil {
		return fmt.Errorf("read container: %w", err)
	}
	out := cmp.Or(opts.Out, config.DefaultStegoOut(opts.Container))
	if samePath(out, opts.Container) {
		return fmt.Errorf("refusing to overwrite the container %s", opts.Container)
	}

	text, err := stego.Embed(string(data), payload)
	if errors.Is(err, stego.ErrCapacity) {
		log.Warn("container too small", zap.String("container", opts.Container),
			zap.Int("capacity", stego.Capacity(string(data))), zap.Int("payload", len(payload)))
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	log.Info("message hidden", zap.String("container", opts.Container), zap.String("out", out), zap.Int("bytes", len(payload)))

	printer.Success("Hidden %d bytes in %s", len(payload), out)
	if opts.Inline {
		printer.Info("Text encoding: %s", opts.Encoding)
	}
	return nil
}

// loadPayload returns the bytes to hide: encoded inline text or the raw
// content of the message file.
func loadPayload(opts *config.Stego, prompter *console.Prompter) ([]byte, error) {
	if opts.Inline {
		text := opts.Message
		if text == "" {
			var err error
			if text, err = prompter.ReadLine(inlinePrompt); err != nil {
				return nil, fmt.Errorf("message: %w", err)
			}
		}
		return stego.EncodeText(opts.Encoding, text)
	}

	path, err := prompter.AskPath(opts.Message, messagePrompt)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	return data, nil
}

func runExtract(opts *config.Stego, stdin io.Reader, stdout, stderr io.Writer) error {
	log, err := newRunLogger(opts.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	printer := console.NewPrinter(stdout)
	prompter := console.NewPrompter(stdin, stdout)

	if opts.Container, err = prompter.AskPath(opts.Container, containerPrompt); err != nil {
		return fmt.Errorf("container: %w", err)
	}
	data, err := os.ReadFile(opts.Container)
	if err != nil {
		return fmt.Errorf("read container: %w", err)
	}

	payload, err := stego.Extract(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", opts.Container, err)
	}
	text, err := stego.DecodeText(opts.Encoding, payload)
	if err != nil {
		return err
	}
	log.Info("message extracted", zap.String("container", opts.Container), zap.Int("bytes", len(payload)))

	printer.Success("Extracted %d bytes (%s)", len(payload), opts.Encoding)
	printer.Plain("----- BEGIN MESSAGE -----\n%s\n----- END MESSAGE -----\n", text)

	if opts.Out != "" {
		if samePath(opts.Out, opts.Container) {
			return fmt.Errorf("refusing to overwrite the container %s", opts.Container)
		}
		if err := os.WriteFile(opts.Out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write message: %w", err)
		}
		printer.Info("Message written to %s", opts.Out)
	}
	return nil
}

func newRunLogger(level string, stderr io.Writer) (*zap.Logger, error) {
	log := logger.NewWithWriter(stderr)
	if err := log.Init(level); err != nil {
		return nil, err
	}
	return log.ForRun("stego"), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
