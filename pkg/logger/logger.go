// Package logger installs the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/unowned-ai/devlog/pkg/config"
)

// Setup sets a JSON slog logger as the default. Output goes to a rotated file when
// cfg.Path is set and to out otherwise. The returned closer flushes the file.
func Setup(cfg config.Log, out io.Writer) io.Closer {
	writer := out
	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer, closer = rotated, rotated
	}

	slog.SetDefault(New(writer, cfg.SlogLevel()))
	return closer
}

// New returns a JSON logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
