// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over the go-ethereum structured logger.
// Packages keep a context logger created by WithContext, so the root
// handler can be replaced at startup without re-wiring them.
package log

import (
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a Handler.
type Logger = ethlog.Logger

// log levels, ordered by verbosity
const (
	LevelCrit  = ethlog.LevelCrit
	LevelError = ethlog.LevelError
	LevelWarn  = ethlog.LevelWarn
	LevelInfo  = ethlog.LevelInfo
	LevelDebug = ethlog.LevelDebug
	LevelTrace = ethlog.LevelTrace
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault replaces the root logger.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// WithContext returns a logger that resolves the root logger lazily, so loggers
// created at package init pick up handlers installed later.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// NewLogger creates a logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// NewTerminalLogger creates a human friendly logger writing to w at the given level.
func NewTerminalLogger(w io.Writer, level slog.Level, useColor bool) Logger {
	return ethlog.NewLogger(ethlog.NewTerminalHandlerWithLevel(w, level, useColor))
}

// LevelFromVerbosity converts a 0-5 verbosity, as used by command line flags, into a level.
func LevelFromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// Trace logs at trace level on the root logger.
func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
