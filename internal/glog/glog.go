// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glog is a minimal leveled logging shim over log/slog, used for
// binary-cache trace lines, backend-selection fallback decisions, and CPU
// pool lifecycle events. No third-party structured logger appears anywhere
// in the retrieved example pack for a library (as opposed to an
// application) target, so this stays directly on the standard library —
// see DESIGN.md.
package glog

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetOutput redirects all ghost logging to w at the given level. Passing
// io.Discard (the default) silences logging entirely.
func SetOutput(w io.Writer, level slog.Level) {
	logger.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Debugf logs a formatted debug-level line tagged with component.
func Debugf(component, format string, args ...any) {
	logger.Load().Debug(sprintf(format, args...), "component", component)
}

// Infof logs a formatted info-level line tagged with component.
func Infof(component, format string, args ...any) {
	logger.Load().Info(sprintf(format, args...), "component", component)
}

// Warnf logs a formatted warn-level line tagged with component.
func Warnf(component, format string, args ...any) {
	logger.Load().Warn(sprintf(format, args...), "component", component)
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
