// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ghostcfg holds process-wide, programmatically-supplied
// configuration. Per spec.md §6, no environment variables are read by the
// core; every option here is set by caller code, mirroring the teacher's
// small-struct-with-defaults configuration idiom (parallel.Config /
// parallel.DefaultConfig).
package ghostcfg

import "io"

// Config is the set of process-wide knobs a Device construction consults.
type Config struct {
	// CachePath is the binary-cache directory. Empty disables the cache
	// (BinaryCache.Enabled() returns false), matching spec.md §4.4.
	CachePath string

	// CachePurgeDays is the age threshold PurgeBinaries uses when no
	// explicit value is given. Matches original_source's
	// purgeBinaries(int days = 30) default.
	CachePurgeDays int

	// CPUCores overrides the CPU backend's auto-detected core count. Zero
	// means auto-detect via runtime.NumCPU(), the idiomatic Go equivalent
	// of spec.md §4.6's per-OS detection ladder.
	CPUCores int

	// MetalFunctionLogSink, if non-nil, receives the Metal-class backend's
	// runtime shader-compiler diagnostics even on successful builds.
	MetalFunctionLogSink io.Writer
}

// DefaultConfig returns the zero-configured default: no cache, auto-detect
// cores, 30-day purge threshold.
func DefaultConfig() Config {
	return Config{CachePurgeDays: 30}
}
