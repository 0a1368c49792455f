// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const termTimeFormat = "01-02|15:04:05.000"

// terminalHandler renders records as "LVL [time] msg k=v ...", coloring the
// level tag when the writer is a terminal.
type terminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

func newTerminalHandler(wr io.Writer, lvl *slog.LevelVar, useColor bool) *terminalHandler {
	return &terminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(h.levelTag(r.Level))
	b.WriteByte('[')
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(attrValue(a.Value))
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.wr, b.String())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &terminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    merged,
	}
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *terminalHandler) levelTag(level slog.Level) string {
	tag := "INFO "
	color := "32"
	switch {
	case level >= slog.LevelError:
		tag, color = "ERROR", "31"
	case level >= slog.LevelWarn:
		tag, color = "WARN ", "33"
	case level < slog.LevelInfo:
		tag, color = "DEBUG", "36"
	}
	if h.useColor {
		return fmt.Sprintf("\x1b[%sm%s\x1b[0m", color, tag)
	}
	return tag
}

func attrValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " =") {
			return fmt.Sprintf("%q", s)
		}
		return s
	default:
		return v.String()
	}
}
