// Copyright (c) 2026 The IAMAI DAO developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides leveled, contextual logging on top of log/slog.
package log

import (
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// Logger is the logging interface used across the project.
type Logger interface {
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

var (
	level slog.LevelVar
	root  atomic.Pointer[logger]
)

func init() {
	level.Set(slog.LevelInfo)
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	root.Store(&logger{slog.New(newTerminalHandler(os.Stderr, &level, useColor))})
}

// Root returns the process-wide root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger carrying the given key-value context.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}

// SetVerbosity adjusts the level of the root logger.
// 0 silences everything but errors, 3 is the default, 4 and above enables debug.
func SetVerbosity(v int) {
	switch {
	case v <= 0:
		level.Set(slog.LevelError)
	case v == 1:
		level.Set(slog.LevelWarn)
	case v <= 3:
		level.Set(slog.LevelInfo)
	default:
		level.Set(slog.LevelDebug)
	}
}
