// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refcount implements the shared-reference substrate the ghost
// package's ownership graph needs: a Device keeps a reference to its
// default stream, a Function keeps its owning Library alive, and every
// user-facing handle is a shared-reference root whose last drop runs the
// backend's release. Grounded on the atomic-refcounted buffer pattern in
// the teacher's internal/tensor (tensorBuffer.addRef/release), generalized
// to an arbitrary payload and release function.
package refcount

import "sync/atomic"

// Box is a reference-counted holder for a value of type T. The zero Box is
// not usable; construct one with New.
type Box[T any] struct {
	value   T
	count   atomic.Int32
	release func(T)
}

// New returns a Box holding value with an initial reference count of 1.
// release runs exactly once, when the count reaches zero.
func New[T any](value T, release func(T)) *Box[T] {
	b := &Box[T]{value: value, release: release}
	b.count.Store(1)
	return b
}

// Retain increments the reference count and returns the same Box, so a
// caller can write `held := box.Retain()` to make the extra reference
// explicit at the call site.
func (b *Box[T]) Retain() *Box[T] {
	b.count.Add(1)
	return b
}

// Release decrements the reference count, running the release function
// exactly once when it reaches zero. Safe to call at most once per Retain
// (including the implicit first reference from New) — calling it more
// times than references held would double-release, the same contract
// Handle.Reset documents for a single owned handle.
func (b *Box[T]) Release() {
	if b.count.Add(-1) == 0 {
		b.release(b.value)
	}
}

// Get returns the held value. Valid until the caller's own Release runs.
func (b *Box[T]) Get() T { return b.value }

// Count reports the current reference count, for tests and diagnostics.
func (b *Box[T]) Count() int32 { return b.count.Load() }
