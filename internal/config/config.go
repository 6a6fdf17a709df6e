// Package config holds the options of the command-line tools, their
// defaults and the flag definitions that fill them.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// DefaultSidecar is the manifest file name written into a scanned root.
const DefaultSidecar = "hash.json"

// GateLogLevel is the fixed log level of the gate, which takes no flags.
const GateLogLevel = "warn"

// Gate holds the options of the credential gate.
type Gate struct {
	// RecordPath is the credential record file. Empty means ask the user.
	RecordPath string
}

// ParseGate builds Gate options from the positional arguments.
func ParseGate(args []string) (*Gate, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("expected at most one record path, got %d arguments", len(args))
	}
	o := &Gate{}
	if len(args) == 1 {
		o.RecordPath = strings.TrimSpace(args[0])
	}
	return o, nil
}

// Stego holds the options of the hide and extract commands.
type Stego struct {
	// Container is the text container path.
	Container string
	// Message is a message file path, or the message text with Inline.
	Message string
	// Out is the output path; for hide it defaults to DefaultStegoOut.
	Out string
	// Inline makes Message the text itself.
	Inline bool
	// Encoding is the payload text encoding.
	Encoding string
	// LogLevel is the zap level.
	LogLevel string
}

// BindHide defines the hide flags on fs.
func (o *Stego) BindHide(fs *pflag.FlagSet) {
	o.bindCommon(fs)
	fs.StringVarP(&o.Message, "message", "m", "", "message file, or the message text with --inline")
	fs.StringVarP(&o.Out, "out", "o", "", "output container (default <name>_steg<ext> next to the container)")
	fs.BoolVar(&o.Inline, "inline", false, "treat --message as the text to hide")
}

// BindExtract defines the extract flags on fs.
func (o *Stego) BindExtract(fs *pflag.FlagSet) {
	o.bindCommon(fs)
	fs.StringVarP(&o.Out, "out", "o", "", "write the extracted text to this file")
}

func (o *Stego) bindCommon(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Container, "container", "c", "", "text container file")
	fs.StringVar(&o.Encoding, "encoding", "cp1251", "payload text encoding: cp1251 or utf-8")
	fs.StringVar(&o.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// DefaultStegoOut returns <stem>_steg<ext> next to container.
func DefaultStegoOut(container string) string {
	ext := filepath.Ext(container)
	stem := strings.TrimSuffix(filepath.Base(container), ext)
	return filepath.Join(filepath.Dir(container), stem+"_steg"+ext)
}

// Scan holds the options of the directory integrity scanner.
type Scan struct {
	// Dir is the root to scan. Empty means ask the user.
	Dir string
	// Sidecar is the manifest file name inside Dir.
	Sidecar string
	// Update rewrites the manifest after reporting changes.
	Update bool
	// Workers bounds parallel hashing; zero means one per CPU.
	Workers int
	// LogLevel is the zap level.
	LogLevel string
}

// Bind defines the scanner flags on fs.
func (o *Scan) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Sidecar, "sidecar", DefaultSidecar, "manifest file name inside the scanned directory")
	fs.BoolVar(&o.Update, "update", false, "rewrite the manifest after reporting changes")
	fs.IntVar(&o.Workers, "workers", 0, "parallel hashing workers (0 = one per CPU)")
	fs.StringVar(&o.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// Validate checks option values that flags cannot constrain.
func (o *Scan) Validate() error {
	if o.Workers < 0 {
		return errors.New("--workers must not be negative")
	}
	if o.Sidecar == "" || filepath.Base(o.Sidecar) != o.Sidecar {
		return fmt.Errorf("--sidecar must be a plain file name, got %q", o.Sidecar)
	}
	return nil
}

// SidecarPath returns the manifest location inside Dir.
func (o *Scan) SidecarPath() string {
	return filepath.Join(o.Dir, o.Sidecar)
}
