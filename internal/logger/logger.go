// Package logger wraps zap for the command-line tools. Logs go to stderr so
// they never mix with prompts and results on stdout.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger holds the process logger.
type Logger struct {
	// Log is usable before Init and discards everything until then.
	Log *zap.Logger

	sink zapcore.WriteSyncer
}

// New returns a Logger writing to stderr once initialized.
func New() *Logger {
	return NewWithSink(zapcore.Lock(os.Stderr))
}

// NewWithSink returns a Logger writing to sink once initialized.
func NewWithSink(sink zapcore.WriteSyncer) *Logger {
	return &Logger{Log: zap.NewNop(), sink: sink}
}

// NewWithWriter returns a Logger writing to w once initialized.
func NewWithWriter(w io.Writer) *Logger {
	if f, ok := w.(*os.File); ok {
		return NewWithSink(zapcore.Lock(f))
	}
	return NewWithSink(zapcore.AddSync(w))
}

// Init builds the logger at the given level ("debug", "info", "warn",
// "error"). Output is human-readable console encoding.
func (l *Logger) Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), l.sink, lvl)

	l.Log = zap.New(core)
	return nil
}

// ForRun returns a child logger tagged with the tool name and a fresh
// invocation id.
func (l *Logger) ForRun(tool string) *zap.Logger {
	return l.Log.With(zap.String("tool", tool), zap.String("run_id", uuid.NewString()))
}
