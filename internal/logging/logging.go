// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"log/slog"

	"github.com/vango-dev/ripple/internal/config"
)

// New returns a logger writing to w at cfg's level, as text or JSON.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
