package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// TextHandler is a compact slog.Handler for terminals: one line per record,
// colored level tag, key=value attributes.
type TextHandler struct {
	opts     *slog.HandlerOptions
	w        io.Writer
	mu       *sync.Mutex
	attrs    []slog.Attr
	useColor bool
}

func NewTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) *TextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &TextHandler{
		opts:     opts,
		w:        w,
		mu:       &sync.Mutex{},
		useColor: useColor,
	}
}

func (h *TextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *TextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf []byte
	buf = fmt.Appendf(buf, "%s %s %s",
		r.Time.Format("15:04:05.000"), h.formatLevel(r.Level), r.Message)

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	_, err := h.w.Write(buf)
	h.mu.Unlock()
	return err
}

func (h *TextHandler) formatLevel(level slog.Level) string {
	var tag, color string
	switch {
	case level < slog.LevelInfo:
		tag, color = "DBG", colorGray
	case level < slog.LevelWarn:
		tag, color = "INF", colorGreen
	case level < slog.LevelError:
		tag, color = "WRN", colorYellow
	default:
		tag, color = "ERR", colorRed
	}
	if h.useColor {
		return color + tag + colorReset
	}
	return tag
}

func (h *TextHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	a.Value = a.Value.Resolve()

	val := formatValue(a.Value)
	if h.useColor {
		return fmt.Appendf(buf, " %s%s%s=%s", colorCyan, a.Key, colorReset, val)
	}
	return fmt.Appendf(buf, " %s=%s", a.Key, val)
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}

func (h *TextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TextHandler{
		opts:     h.opts,
		w:        h.w,
		mu:       h.mu, // shared with the parent
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
		useColor: h.useColor,
	}
}

func (h *TextHandler) WithGroup(name string) slog.Handler {
	// Groups are rare in this codebase; flatten them.
	return h
}
