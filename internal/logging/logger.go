// Package logging wraps zerolog with the key/value call style used across
// wmctrl. Output goes to stderr so stdout stays reserved for command results.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when neither config nor flags pick a level.
const DefaultLevel = zerolog.WarnLevel

type Logger struct {
	zlog zerolog.Logger
	file *os.File
}

type options struct {
	level   zerolog.Level
	writers []io.Writer
	file    string
}

type Option func(*options)

// WithLevel sets the logging level
func WithLevel(level zerolog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithConsole logs human-readable lines to stderr.
func WithConsole() Option {
	return WithWriter(os.Stderr)
}

// WithWriter logs human-readable lines to w without colors.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writers = append(o.writers, zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
}

// WithFile additionally appends log lines to path, creating parent
// directories as needed.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// New creates a logger. Without writer options it logs to stderr.
func New(opts ...Option) (*Logger, error) {
	o := options{level: DefaultLevel}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{}
	writers := o.writers
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(o.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
	}
	if len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	l.zlog = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(o.level).
		With().Timestamp().Logger()
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Debug(msg string, fields ...any) {
	if l == nil {
		return
	}
	l.emit(l.zlog.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...any) {
	if l == nil {
		return
	}
	l.emit(l.zlog.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...any) {
	if l == nil {
		return
	}
	l.emit(l.zlog.Warn(), msg, fields)
}

// Error logs msg at error level with err attached.
func (l *Logger) Error(msg string, err error, fields ...any) {
	if l == nil {
		return
	}
	event := l.zlog.Error()
	if err != nil {
		event = event.Err(err)
	}
	l.emit(event, msg, fields)
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []any) {
	if event == nil {
		return
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		event = event.Str("file", filepath.Base(file)).Int("line", line)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
