package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketSignals/internal/ports"
)

// LogLevel defines the logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string level to LogLevel.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo // Default to Info
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZeroLogger implements the ports.Logger interface on top of zerolog.
type ZeroLogger struct {
	logger zerolog.Logger
}

var _ ports.Logger = (*ZeroLogger)(nil)

// New creates a logger writing JSON lines to os.Stderr, or human readable
// lines when console is true.
func New(level LogLevel, console bool) *ZeroLogger {
	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter creates a JSON logger on an arbitrary writer.
func NewWithWriter(w io.Writer, level LogLevel) *ZeroLogger {
	zl := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &ZeroLogger{logger: zl}
}

// Zerolog exposes the underlying logger for middleware that logs directly.
func (l *ZeroLogger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *ZeroLogger) emit(ev *zerolog.Event, msg string, fields []ports.Fields) {
	if len(fields) > 0 && fields[0] != nil {
		ev = ev.Fields(map[string]interface{}(fields[0]))
	}
	ev.Msg(msg)
}

// Debug logs a message at Debug level.
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields ...ports.Fields) {
	l.emit(l.logger.Debug().Ctx(ctx), msg, fields)
}

// Info logs a message at Info level.
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields ...ports.Fields) {
	l.emit(l.logger.Info().Ctx(ctx), msg, fields)
}

// Warn logs a message at Warning level.
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields ...ports.Fields) {
	l.emit(l.logger.Warn().Ctx(ctx), msg, fields)
}

// Error logs an error message at Error level.
func (l *ZeroLogger) Error(ctx context.Context, err error, msg string, fields ...ports.Fields) {
	l.emit(l.logger.Error().Ctx(ctx).Err(err), msg, fields)
}
