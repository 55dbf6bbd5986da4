// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// MappedBuffer is a Buffer whose storage can be mapped directly into the
// host's address space.
type MappedBuffer struct {
	*Buffer
	mapped backend.MappedBufferImpl
}

func newMappedBuffer(impl backend.MappedBufferImpl) *MappedBuffer {
	return &MappedBuffer{Buffer: newBuffer(impl), mapped: impl}
}

// Map returns a host pointer to the buffer's storage, valid until Unmap.
// sync requests that any pending device writes complete before the
// pointer is returned.
func (m *MappedBuffer) Map(stream *Stream, access Access, sync bool) (unsafe.Pointer, error) {
	return m.mapped.Map(stream.unwrap(), access, sync)
}

// Unmap invalidates the pointer returned by Map, flushing host writes back
// to the device if access requested writing.
func (m *MappedBuffer) Unmap(stream *Stream) error {
	return m.mapped.Unmap(stream.unwrap())
}
