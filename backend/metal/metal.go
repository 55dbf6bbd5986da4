// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

// Package metal implements the Metal-class GPU backend via cgo over a thin
// Objective-C bridge (bridge.h/bridge.m), grounded on
// _examples/other_examples/23skdu-longbow-quarrel__metal.go's bridge-header
// pattern. Every Metal object this backend touches is owned through
// handle.Handle with explicit retain/release calls into the bridge, not
// ARC — the bridge is compiled without -fobjc-arc for exactly that reason
// (see DESIGN.md).
package metal

/*
#cgo LDFLAGS: -framework Metal -framework Foundation
#include "bridge.h"
#include <stdlib.h>
*/
import "C"

import "unsafe"

// objTraits releases a retained Objective-C object pointer through the
// bridge. It also implements handle.Retainer so WrapShared/Clone retain
// correctly for Metal's reference-counted object model.
type objTraits struct{}

func (objTraits) Release(h unsafe.Pointer) {
	if h != nil {
		C.ghost_metal_release(h)
	}
}

func (objTraits) Retain(h unsafe.Pointer) unsafe.Pointer {
	if h == nil {
		return nil
	}
	return C.ghost_metal_retain(h)
}

func cString(s string) *C.char {
	return C.CString(s)
}

func freeCString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// takeError converts a bridge-allocated C string error (or nil) into a Go
// error, freeing the C string either way.
func takeError(op string, cerr *C.char) error {
	if cerr == nil {
		return nil
	}
	msg := C.GoString(cerr)
	C.ghost_metal_free_cstr(cerr)
	return buildOrNative(op, msg)
}
