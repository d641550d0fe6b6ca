// Package logging builds the application logger. The terminal belongs
// to the TUI, so logs go to a file under the data directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a tinted slog logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    true,
	})
	return slog.New(h).With("app", "icewatch")
}

// OpenLogFile opens (or creates) the append-only log file in dir.
func OpenLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data dir: %w", err)
	}
	path := filepath.Join(dir, "icewatch.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}
