// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader is the thin, runtime-resolved dynamic-library trampoline
// shared by backend/cuda and the CPU backend's shared-library kernel
// loading (backend/opencl links through cgo instead). It is deliberately minimal: open a native
// library by trying a list of candidate names, then resolve function
// pointers out of it with purego.RegisterLibFunc. This is the Go analogue
// of original_source's cuda_wrapper.cpp, which resolves the CUDA driver
// ABI at runtime rather than linking against it statically.
//
// This package is an external-collaborator boundary per spec.md §1: the
// actual vendor ABI it exposes is documented only by the function
// signatures each backend registers through it.
package loader

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Library is a handle to a dynamically loaded native shared library.
type Library struct {
	handle uintptr
	path   string
}

// Open tries each candidate name in order and returns the first one that
// loads successfully via dlopen/LoadLibrary.
func Open(candidates ...string) (*Library, error) {
	var lastErr error
	for _, name := range candidates {
		h, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err == nil {
			return &Library{handle: h, path: name}, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("loader: could not open any of %v: %w", candidates, lastErr)
}

// Path returns the name the library was actually opened under.
func (l *Library) Path() string { return l.path }

// Register resolves symbol out of the library into fnPtr, a pointer to a
// function-typed variable (the purego.RegisterLibFunc contract). It panics
// on a missing symbol, matching purego's own behavior — callers load a
// fixed, known symbol table at init time, so a missing symbol means the
// installed vendor runtime is an unsupported version, a condition the
// backend should surface as ghosterr.Unsupported during its own Open, not
// silently limp along with a nil function pointer.
func (l *Library) Register(fnPtr any, symbol string) {
	purego.RegisterLibFunc(fnPtr, l.handle, symbol)
}

// RegisterOptional is like Register but returns false instead of panicking
// when the symbol is absent, for ABI entry points a backend can do without
// (e.g. an extension function only present on newer vendor runtimes).
func RegisterOptional(l *Library, fnPtr any, symbol string) bool {
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil || addr == 0 {
		return false
	}
	purego.RegisterFunc(fnPtr, addr)
	return true
}

// Close unloads the library. Best-effort: the CUDA driver library is a
// process-lifetime singleton in practice, so backends generally never
// call this.
func (l *Library) Close() error {
	return purego.Dlclose(l.handle)
}
