// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/ghosterr"
	"github.com/gmeeker/ghost/internal/refcount"
)

// Library is a compiled (or loaded) collection of kernel functions.
// Functions retain a reference to their owning Library for as long as they
// are open, per the one-directional ownership rule: functions reference
// libraries, libraries never reference functions.
type Library struct {
	box *refcount.Box[backend.LibraryImpl]
}

func newLibrary(impl backend.LibraryImpl) *Library {
	return &Library{box: refcount.New(impl, releaseLibrary)}
}

func releaseLibrary(impl backend.LibraryImpl) {
	if lc, ok := impl.(backend.LibraryCloser); ok {
		lc.Close()
	}
}

// LookupFunction returns the named kernel entry point.
func (l *Library) LookupFunction(name string) (*Function, error) {
	impl, err := l.box.Get().LookupFunction(name)
	if err != nil {
		return nil, err
	}
	return newFunction(impl, l), nil
}

// LookupSpecializedFunction returns the named kernel entry point compiled
// with attrs bound as function constants, for backends that support
// specialization (Metal-class). Returns an error on backends that don't.
func (l *Library) LookupSpecializedFunction(name string, attrs []attribute.Attribute) (*Function, error) {
	sl, ok := l.box.Get().(backend.SpecializableLibrary)
	if !ok {
		return nil, ghosterr.Unsupported("", "lookupSpecializedFunction")
	}
	impl, err := sl.LookupSpecializedFunction(name, attrs)
	if err != nil {
		return nil, err
	}
	return newFunction(impl, l), nil
}

// Close drops this reference to the library, unloading the backend's
// native module/program when it was the last one.
func (l *Library) Close() error {
	l.box.Release()
	return nil
}

// retain returns a new Library value sharing this one's box with an extra
// reference, for a Function to hold onto its owning Library.
func (l *Library) retain() *Library {
	return &Library{box: l.box.Retain()}
}
