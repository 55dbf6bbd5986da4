// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/handle"
)

// Buffer wraps an MTLBuffer allocated in shared storage mode, so its
// contents pointer is always directly host-addressable.
type Buffer struct {
	device *Device
	h      handle.Handle[unsafe.Pointer, objTraits]
	size   uint64
}

var _ backend.BufferImpl = (*Buffer)(nil)

func (b *Buffer) contents() unsafe.Pointer {
	return C.ghost_metal_buffer_contents(b.h.Get())
}

// CopyFromBuffer copies device-to-device via a blit command encoder on a
// fresh, synchronously-committed command buffer.
func (b *Buffer) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, bytes uint64) error {
	st, ok := s.(*Stream)
	if !ok {
		return unsupported("copyFromBuffer: stream from a different backend")
	}
	srcBuf, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: buffer from a different backend")
	}
	cb := st.commandBuffer()
	C.ghost_metal_blit_copy(cb, b.h.Get(), 0, srcBuf.h.Get(), 0, C.size_t(bytes))
	C.ghost_metal_command_buffer_commit_and_wait(cb)
	return nil
}

// CopyFromHost memcpy's directly into the shared-storage contents pointer.
func (b *Buffer) CopyFromHost(s backend.StreamImpl, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	n := clampLen(uint64(len(src)), b.size)
	dst := unsafe.Slice((*byte)(b.contents()), n)
	copy(dst, src)
	return nil
}

// CopyToHost memcpy's out of the shared-storage contents pointer.
func (b *Buffer) CopyToHost(s backend.StreamImpl, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	n := clampLen(uint64(len(dst)), b.size)
	src := unsafe.Slice((*byte)(b.contents()), n)
	copy(dst, src)
	return nil
}

func (b *Buffer) Release() {
	b.h.Reset()
}

func clampLen(want, avail uint64) uint64 {
	if want > avail {
		return avail
	}
	return want
}

// MappedBuffer on Metal is the same shared-storage buffer: Map returns the
// live contents pointer directly, no explicit map/unmap transaction is
// required by the hardware.
type MappedBuffer struct {
	Buffer
}

var _ backend.MappedBufferImpl = (*MappedBuffer)(nil)

func (m *MappedBuffer) Map(s backend.StreamImpl, access backend.Access, sync bool) (unsafe.Pointer, error) {
	return m.contents(), nil
}

func (m *MappedBuffer) Unmap(s backend.StreamImpl) error { return nil }
