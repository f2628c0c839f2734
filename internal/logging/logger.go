package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New builds the process logger. Interactive use gets colorized tint
// output on stderr; otherwise plain JSON, suitable for piping.
func New(w io.Writer, level slog.Level, interactive bool) *slog.Logger {
	if interactive {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h)
}
