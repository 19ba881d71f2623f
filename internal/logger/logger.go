package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const timeFormat = "[02 Jan 06 15:04:05.000]"

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one colored line per record: time, level, message and the attrs as JSON.
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	fields map[string]any
	groups []string
	mu     *sync.Mutex
	w      io.Writer
}

func newPrettyHandler(w io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, mu: &sync.Mutex{}, w: w}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		min = h.opts.SlogOpts.Level.Level()
	}
	return level >= min
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make(map[string]any, r.NumAttrs()+len(h.fields))
	for k, v := range h.fields {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.groups, a)
		return true
	})

	line := r.Time.Format(timeFormat) + " " + level + " " + color.CyanString(r.Message)
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		line += " " + color.WhiteString(string(b))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.fields = make(map[string]any, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		nh.fields[k] = v
	}
	for _, a := range attrs {
		addAttr(nh.fields, h.groups, a)
	}
	return &nh
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func addAttr(fields map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	switch a.Value.Kind() {
	case slog.KindGroup:
		for _, ga := range a.Value.Group() {
			addAttr(fields, append(append([]string{}, groups...), a.Key), ga)
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			fields[key] = err.Error()
			return
		}
		fields[key] = a.Value.Any()
	default:
		fields[key] = a.Value.Any()
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the pretty handler as the default slog logger.
func Setup(level string) *slog.Logger {
	l := slog.New(newPrettyHandler(os.Stdout, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: ParseLevel(level)},
	}))
	slog.SetDefault(l)
	return l
}
