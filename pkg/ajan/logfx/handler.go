package logfx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// prettyHandler is a slog.Handler that renders records as a single colorized
// line, meant for local development. Production deployments should prefer
// AddSource-free JSON via slog.NewJSONHandler, selected through Config.
type prettyHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(out io.Writer, opts slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{ //nolint:exhaustruct
		mu:   &sync.Mutex{},
		out:  out,
		opts: opts,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func levelColor(level slog.Level) Color {
	switch {
	case level >= slog.LevelError:
		return ColorRed
	case level >= slog.LevelWarn:
		return ColorYellow
	case level >= slog.LevelInfo:
		return ColorGreen
	default:
		return ColorGray
	}
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	timestamp := record.Time.Format("15:04:05.000")
	level := Colored(levelColor(record.Level), record.Level.String())

	line := fmt.Sprintf("%s %s %s", Colored(ColorGray, timestamp), level, record.Message)

	for _, attr := range h.attrs {
		line += " " + attr.Key + "=" + attr.Value.String()
	}

	record.Attrs(func(attr slog.Attr) bool {
		line += " " + attr.Key + "=" + attr.Value.String()

		return true
	})

	_, err := fmt.Fprintln(h.out, line)

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cloned := *h
	cloned.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &cloned
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	cloned := *h
	cloned.groups = append(append([]string{}, h.groups...), name)

	return &cloned
}
