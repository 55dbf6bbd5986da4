// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// Buffer implements backend.BufferImpl over a cuMemAlloc device pointer.
type Buffer struct {
	device *Device
	ptr    uintptr
	size   uint64
}

var _ backend.BufferImpl = (*Buffer)(nil)

// CopyFromBuffer copies device-to-device.
func (b *Buffer) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, bytes uint64) error {
	o, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: source buffer from a different backend")
	}
	if err := cuMemcpyDtoD(b.ptr, o.ptr, bytes).ok(); err != nil {
		return native("memcpyDtoD", err.(result))
	}
	return nil
}

// CopyFromHost copies host-to-device.
func (b *Buffer) CopyFromHost(s backend.StreamImpl, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if err := cuMemcpyHtoD(b.ptr, ptrOf(src), uint64(len(src))).ok(); err != nil {
		return native("memcpyHtoD", err.(result))
	}
	return nil
}

// CopyToHost copies device-to-host.
func (b *Buffer) CopyToHost(s backend.StreamImpl, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if err := cuMemcpyDtoH(ptrOf(dst), b.ptr, uint64(len(dst))).ok(); err != nil {
		return native("memcpyDtoH", err.(result))
	}
	return nil
}

// Release frees the device allocation.
func (b *Buffer) Release() {
	if b.ptr != 0 {
		cuMemFree(b.ptr)
		b.ptr = 0
	}
}

// MappedBuffer implements backend.MappedBufferImpl over host-pinned memory
// mapped into the device's address space.
type MappedBuffer struct {
	Buffer
	host unsafe.Pointer
}

var _ backend.MappedBufferImpl = (*MappedBuffer)(nil)

// Map returns the host-side pointer; since the storage is already mapped
// at allocation time, sync only matters if a prior device-side write needs
// to be visible, which this backend guarantees by synchronizing the stream.
func (m *MappedBuffer) Map(s backend.StreamImpl, access backend.Access, sync bool) (unsafe.Pointer, error) {
	if sync {
		if st, ok := s.(*Stream); ok {
			if err := st.Sync(); err != nil {
				return nil, err
			}
		}
	}
	return m.host, nil
}

// Unmap is a no-op: the mapping is permanent for the buffer's lifetime.
func (m *MappedBuffer) Unmap(s backend.StreamImpl) error { return nil }

// Release frees the pinned host allocation; the device-side mapping is
// released along with it.
func (m *MappedBuffer) Release() {
	if m.host != nil {
		m.device.FreeHostMemory(m.host)
		m.host = nil
	}
	m.Buffer.ptr = 0
}
