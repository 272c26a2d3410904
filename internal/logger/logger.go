// Package logger builds the zap logger used throughout xiterm.
//
// The terminal belongs to the renderer, so log output always goes to a file.
// Levels follow the -v count: 0=error, 1=warn, 2=info, 3=debug, 4+=trace.
package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below debug. It is used for wire traffic.
const TraceLevel = zapcore.DebugLevel - 1

// Config configures the logger.
type Config struct {
	// File is the path of the log file. Empty disables logging.
	File string

	// Verbosity is the number of -v flags given.
	Verbosity int

	// Level overrides Verbosity when set ("trace", "debug", "info", "warn", "error").
	Level string
}

// LevelForVerbosity maps a -v count to a level.
func LevelForVerbosity(v int) zapcore.Level {
	switch {
	case v <= 0:
		return zapcore.ErrorLevel
	case v == 1:
		return zapcore.WarnLevel
	case v == 2:
		return zapcore.InfoLevel
	case v == 3:
		return zapcore.DebugLevel
	default:
		return TraceLevel
	}
}

// ParseLevel parses a level name, including "trace".
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

// New builds a logger writing to cfg.File. The returned close function
// flushes and closes the file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	if cfg.File == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}

	level := LevelForVerbosity(cfg.Verbosity)
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = encodeLevel
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(f),
		zap.NewAtomicLevelAt(level),
	)
	l := zap.New(core, zap.AddCaller())

	closeFn := func() error {
		return errors.Join(l.Sync(), f.Close())
	}
	return l, closeFn, nil
}

// Trace logs msg at TraceLevel.
func Trace(l *zap.Logger, msg string, fields ...zap.Field) {
	if ce := l.Check(TraceLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

type ctxKey struct{}

// NewContext returns a context carrying l.
func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// L returns the logger stored in ctx, or a no-op logger.
func L(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
