// Package logging builds the agent's structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// LogFilePermissions is the mode of a newly created log file.
const LogFilePermissions = 0o600

// ErrUnknownLevel is returned by ParseLevel for unrecognized names.
var ErrUnknownLevel = errors.New("unknown log level")

// Options selects where records go and from which level.
type Options struct {
	Level slog.Level

	// Console receives every record, typically os.Stderr. Nil disables it.
	Console io.Writer

	// FilePath appends records to a file when set. The directory is
	// created when missing.
	FilePath string
}

// ParseLevel accepts debug, info, warn and error, case-insensitively.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Wrapf(ErrUnknownLevel, "%q", name)
	}
}

// New returns a text logger for options and a closer for the log file.
func New(options Options) (*slog.Logger, io.Closer, error) {
	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if options.Console != nil {
		writers = append(writers, options.Console)
	}
	if options.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(options.FilePath), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log directory")
		}
		file, err := os.OpenFile(options.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open log file %s", options.FilePath)
		}
		writers = append(writers, file)
		closer = file
	}
	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closer, nil
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: options.Level})
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
