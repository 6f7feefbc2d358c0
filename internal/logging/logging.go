// Package logging builds the logr.Logger used across the generator.
// Loggers are backed by zap and travel through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V().
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures NewLogger.
type Options struct {
	// Verbosity is the highest logr V-level that is emitted.
	Verbosity int
	// Format is FormatConsole or FormatJSON.
	Format string
	// Writer receives log output; defaults to os.Stderr.
	Writer io.Writer
}

// NewLogger creates a zap-backed logr.Logger.
func NewLogger(opts Options) (logr.Logger, error) {
	if opts.Verbosity < 0 {
		return logr.Discard(), fmt.Errorf("verbosity must be >= 0, got %d", opts.Verbosity)
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	var enc zapcore.Encoder
	switch opts.Format {
	case "", FormatConsole:
		enc = zapcore.NewConsoleEncoder(encCfg)
	case FormatJSON:
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return logr.Discard(), fmt.Errorf("unsupported log format %q", opts.Format)
	}

	// logr V(n) maps to zap level -n
	level := zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zapr.NewLogger(zap.New(core)), nil
}

// IntoContext returns a copy of ctx carrying logger.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger in ctx, or a discarding logger.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
