// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package handle implements a single parametric owning wrapper that
// subsumes the three native object models the backends encounter:
// reference-counted (retain on copy), owned-returned-by-create (adopt), and
// borrowed-from-caller (wrap without ever releasing). See spec.md §4.3 and
// Design Notes §9.
package handle

// Traits supplies the release behavior for a native handle type H. A
// backend that manages a native handle kind through Handle declares one
// Traits implementation for it; in this module that is the Metal backend's
// object pointers (backend/metal objTraits).
type Traits[H any] interface {
	// Release destroys a handle that Handle owns. Release must be a no-op
	// on the zero value of H.
	Release(h H)
}

// Retainer is an optional extension of Traits for native ABIs that are
// themselves reference-counted (Metal, OpenCL). A Handle whose Traits also
// implements Retainer will retain on WrapShared and on Clone.
type Retainer[H any] interface {
	Retain(h H) H
}

// Handle wraps a native handle H, destroying it through T's Release exactly
// once. The zero value of Handle is empty (holds the zero value of H and
// owns nothing) and is safe to use.
type Handle[H any, T Traits[H]] struct {
	h     H
	owned bool
	t     T
}

// Adopt takes ownership of a handle returned fresh from a native "create"
// call, without retaining — ownership transfers from the native API to the
// Handle.
func Adopt[H any, T Traits[H]](t T, h H) Handle[H, T] {
	return Handle[H, T]{h: h, owned: true, t: t}
}

// WrapShared wraps a handle obtained from outside (a shared context, a
// borrowed reference) without transferring ownership away from the
// original owner. If T also implements Retainer, the native retain is
// invoked so the Handle holds its own reference and will release it on
// destruction; otherwise the Handle is a non-owning view and Reset/drop is
// a no-op on the native handle.
func WrapShared[H any, T Traits[H]](t T, h H) Handle[H, T] {
	if r, ok := any(t).(Retainer[H]); ok {
		return Handle[H, T]{h: r.Retain(h), owned: true, t: t}
	}
	return Handle[H, T]{h: h, owned: false, t: t}
}

// Get returns the wrapped native handle.
func (w *Handle[H, T]) Get() H { return w.h }

// Valid reports whether the Handle owns a handle it would release on Reset.
func (w *Handle[H, T]) Valid() bool { return w.owned }

// Out returns the address of the native handle storage for use with a
// native "out parameter" creation call. Any prior owned contents are
// destroyed first, since the native call is about to overwrite the slot.
func (w *Handle[H, T]) Out() *H {
	w.Reset()
	return &w.h
}

// ReleaseOwnership returns the raw native handle and suppresses the
// destructor: the caller becomes responsible for releasing it.
func (w *Handle[H, T]) ReleaseOwnership() H {
	h := w.h
	w.owned = false
	var zero H
	w.h = zero
	return h
}

// Reset destroys the current contents now, if owned, and clears the
// handle. Safe to call multiple times.
func (w *Handle[H, T]) Reset() {
	if w.owned {
		w.t.Release(w.h)
	}
	var zero H
	w.h = zero
	w.owned = false
}

// Replace destroys the previous contents (if owned) then adopts h as a new
// owned handle.
func (w *Handle[H, T]) Replace(h H) {
	w.Reset()
	w.h = h
	w.owned = true
}

// Clone produces an independent Handle sharing the same underlying native
// object when T implements Retainer (a retain is performed); otherwise
// Clone returns a non-owning view identical to WrapShared.
func (w *Handle[H, T]) Clone() Handle[H, T] {
	return WrapShared(w.t, w.h)
}
