// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
)

// Function is a single kernel entry point looked up from a Library. It
// keeps its owning Library alive (a retained reference) for as long as it
// is open.
type Function struct {
	impl backend.FunctionImpl
	lib  *Library
}

func newFunction(impl backend.FunctionImpl, owner *Library) *Function {
	return &Function{impl: impl, lib: owner.retain()}
}

// Launch enqueues the kernel on stream with the given launch geometry and
// parameters. BufferRef/ImageRef attributes built against *ghost.Buffer or
// *ghost.Image are rewritten to the backend's own concrete resource types
// before being forwarded.
func (f *Function) Launch(stream *Stream, args LaunchArgs, params []attribute.Attribute) error {
	return f.impl.Launch(stream.unwrap(), args, resolveParams(params))
}

// GetAttribute reports a function property.
func (f *Function) GetAttribute(id FunctionAttributeID) attribute.Attribute {
	return f.impl.GetAttribute(id)
}

// Close releases the function's native resources, if any, and drops its
// reference to the owning Library.
func (f *Function) Close() error {
	if fc, ok := f.impl.(backend.FunctionCloser); ok {
		fc.Close()
	}
	return f.lib.Close()
}
