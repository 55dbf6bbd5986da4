// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package opencl

/*
#define CL_TARGET_OPENCL_VERSION 120
#include <CL/cl.h>
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// Buffer implements backend.BufferImpl over an OpenCL cl_mem object.
type Buffer struct {
	device *Device
	mem    C.cl_mem
	size   uint64
}

var _ backend.BufferImpl = (*Buffer)(nil)

func streamOf(s backend.StreamImpl) (*Stream, error) {
	st, ok := s.(*Stream)
	if !ok {
		return nil, unsupported("stream from a different backend")
	}
	return st, nil
}

func queueOf(s backend.StreamImpl) (C.cl_command_queue, error) {
	st, err := streamOf(s)
	if err != nil {
		return nil, err
	}
	return st.queue, nil
}

// CopyFromBuffer copies device-to-device via clEnqueueCopyBuffer, threading
// the stream's event chain (spec.md §4.9/§5) through the copy.
func (b *Buffer) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, bytes uint64) error {
	o, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: source buffer from a different backend")
	}
	stream, err := streamOf(s)
	if err != nil {
		return err
	}
	numWait, waitList := stream.beginEnqueue()
	var outEvent C.cl_event
	st := status(C.clEnqueueCopyBuffer(stream.queue, o.mem, b.mem, 0, 0, C.size_t(bytes), numWait, waitList, &outEvent))
	if err := st.ok(); err != nil {
		stream.endEnqueue(nil)
		return native("enqueueCopyBuffer", err.(status))
	}
	stream.endEnqueue(outEvent)
	return nil
}

// CopyFromHost copies host-to-device via clEnqueueWriteBuffer, threading
// the stream's event chain through the copy. The call still blocks the
// caller (CL_TRUE) since the host buffer src must stay alive only for the
// duration of this call.
func (b *Buffer) CopyFromHost(s backend.StreamImpl, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	stream, err := streamOf(s)
	if err != nil {
		return err
	}
	ptr, sz := cBytes(src)
	numWait, waitList := stream.beginEnqueue()
	var outEvent C.cl_event
	st := status(C.clEnqueueWriteBuffer(stream.queue, b.mem, C.CL_TRUE, 0, sz, ptr, numWait, waitList, &outEvent))
	if err := st.ok(); err != nil {
		stream.endEnqueue(nil)
		return native("enqueueWriteBuffer", err.(status))
	}
	stream.endEnqueue(outEvent)
	return nil
}

// CopyToHost copies device-to-host via clEnqueueReadBuffer, threading the
// stream's event chain through the copy.
func (b *Buffer) CopyToHost(s backend.StreamImpl, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	stream, err := streamOf(s)
	if err != nil {
		return err
	}
	ptr, sz := cBytes(dst)
	numWait, waitList := stream.beginEnqueue()
	var outEvent C.cl_event
	st := status(C.clEnqueueReadBuffer(stream.queue, b.mem, C.CL_TRUE, 0, sz, ptr, numWait, waitList, &outEvent))
	if err := st.ok(); err != nil {
		stream.endEnqueue(nil)
		return native("enqueueReadBuffer", err.(status))
	}
	stream.endEnqueue(outEvent)
	return nil
}

// Release releases the underlying cl_mem object.
func (b *Buffer) Release() {
	if b.mem != nil {
		C.clReleaseMemObject(b.mem)
		b.mem = nil
	}
}

// MappedBuffer implements backend.MappedBufferImpl over a
// CL_MEM_ALLOC_HOST_PTR buffer, mapped on demand with
// clEnqueueMapBuffer/clEnqueueUnmapMemObject.
type MappedBuffer struct {
	Buffer
	mapped unsafe.Pointer
}

var _ backend.MappedBufferImpl = (*MappedBuffer)(nil)

// Map returns a host pointer to the buffer's contents. When sync is true
// the call blocks until the mapping is valid (CL_TRUE for
// blocking_map), matching spec.md's "sync" parameter.
func (m *MappedBuffer) Map(s backend.StreamImpl, access backend.Access, sync bool) (unsafe.Pointer, error) {
	stream, err := streamOf(s)
	if err != nil {
		return nil, err
	}
	blocking := C.cl_bool(C.CL_FALSE)
	if sync {
		blocking = C.CL_TRUE
	}
	numWait, waitList := stream.beginEnqueue()
	var st C.cl_int
	var outEvent C.cl_event
	flags := C.cl_map_flags(C.CL_MAP_READ | C.CL_MAP_WRITE)
	ptr := C.clEnqueueMapBuffer(stream.queue, m.mem, blocking, flags, 0, C.size_t(m.size), numWait, waitList, &outEvent, &st)
	if err := status(st).ok(); err != nil {
		stream.endEnqueue(nil)
		return nil, native("enqueueMapBuffer", err.(status))
	}
	stream.endEnqueue(outEvent)
	m.mapped = ptr
	return ptr, nil
}

// Unmap releases the mapping via clEnqueueUnmapMemObject.
func (m *MappedBuffer) Unmap(s backend.StreamImpl) error {
	if m.mapped == nil {
		return nil
	}
	stream, err := streamOf(s)
	if err != nil {
		return err
	}
	numWait, waitList := stream.beginEnqueue()
	var outEvent C.cl_event
	st := status(C.clEnqueueUnmapMemObject(stream.queue, m.mem, m.mapped, numWait, waitList, &outEvent))
	if err := st.ok(); err != nil {
		stream.endEnqueue(nil)
		return native("enqueueUnmapMemObject", err.(status))
	}
	stream.endEnqueue(outEvent)
	m.mapped = nil
	return nil
}
