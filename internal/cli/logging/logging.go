// Package logging installs the process logger: human-readable text on stderr
// and, optionally, a JSON copy of every record in a file for CI artifacts.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	slogmulti "github.com/samber/slog-multi"
)

type Options struct {
	Verbose bool
	// LogFile receives every record at debug level as JSON when set.
	LogFile string
}

// Setup returns a context carrying the logger and a function closing the log
// file. The logger is also installed as the slog default.
func Setup(ctx context.Context, stderr io.Writer, opts Options) (context.Context, func() error, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}

	closeFn := func() error { return nil }
	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return ctx, closeFn, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return ctx, closeFn, fmt.Errorf("failed to open log file %s: %w", opts.LogFile, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeFn = file.Close
	}

	logger := clog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(&logger.Logger)
	return clog.WithLogger(ctx, logger), closeFn, nil
}
