// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

/*
#include "bridge.h"
#include <stdlib.h>
*/
import "C"

import (
	"math"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/handle"
)

// Function implements backend.FunctionImpl over a compute pipeline state
// built from an MTLFunction.
type Function struct {
	device   *Device
	fn       handle.Handle[unsafe.Pointer, objTraits]
	pipeline handle.Handle[unsafe.Pointer, objTraits]
}

var _ backend.FunctionImpl = (*Function)(nil)

// Launch marshals params into the bridge's per-index argument tables —
// buffer args go in bufferArgs, everything else is widened into an 8-byte
// word and passed via setBytes (rawArgs) — and LocalMem entries become
// setThreadgroupMemoryLength calls instead of bound arguments, matching how
// a Metal compute kernel declares a threadgroup-memory parameter.
func (f *Function) Launch(s backend.StreamImpl, args backend.LaunchArgs, params []attribute.Attribute) error {
	stream, ok := s.(*Stream)
	if !ok {
		return unsupported("launch: stream from a different backend")
	}

	n := len(params)
	bufferArgs := make([]unsafe.Pointer, n)
	bufferOffsets := make([]C.size_t, n)
	rawArgs := make([]unsafe.Pointer, n)
	rawArgLengths := make([]C.size_t, n)
	rawWords := make([]uint64, n)

	var threadgroupLengths []C.size_t

	for i, p := range params {
		switch p.Type() {
		case attribute.Float:
			rawWords[i] = math.Float64bits(p.AsFloat64())
			rawArgs[i] = unsafe.Pointer(&rawWords[i])
			rawArgLengths[i] = 8
		case attribute.Int:
			rawWords[i] = uint64(p.AsInt64())
			rawArgs[i] = unsafe.Pointer(&rawWords[i])
			rawArgLengths[i] = 8
		case attribute.UInt:
			rawWords[i] = p.AsUInt64()
			rawArgs[i] = unsafe.Pointer(&rawWords[i])
			rawArgLengths[i] = 8
		case attribute.Bool:
			if p.AsBool() {
				rawWords[i] = 1
			}
			rawArgs[i] = unsafe.Pointer(&rawWords[i])
			rawArgLengths[i] = 8
		case attribute.BufferRef:
			if b, ok := p.AsBuffer().(*Buffer); ok {
				bufferArgs[i] = b.h.Get()
			}
		case attribute.ImageRef:
			if img, ok := p.AsImage().(*Image); ok {
				bufferArgs[i] = img.buf.h.Get()
			}
		case attribute.LocalMem:
			threadgroupLengths = append(threadgroupLengths, C.size_t(p.LocalMemBytes()))
		}
	}

	cb := stream.commandBuffer()

	var bufPtr *unsafe.Pointer
	var offPtr *C.size_t
	var rawPtr *unsafe.Pointer
	var rawLenPtr *C.size_t
	if n > 0 {
		bufPtr = &bufferArgs[0]
		offPtr = &bufferOffsets[0]
		rawPtr = &rawArgs[0]
		rawLenPtr = &rawArgLengths[0]
	}
	var tgPtr *C.size_t
	if len(threadgroupLengths) > 0 {
		tgPtr = &threadgroupLengths[0]
	}

	local := args.LocalSizeArray()
	C.ghost_metal_dispatch(
		cb, f.pipeline.Get(),
		bufPtr, offPtr,
		rawPtr, rawLenPtr, C.int(n),
		tgPtr, C.int(len(threadgroupLengths)),
		C.uint32_t(args.Count(0)), C.uint32_t(args.Count(1)), C.uint32_t(args.Count(2)),
		C.uint32_t(local[0]), C.uint32_t(local[1]), C.uint32_t(local[2]),
	)
	C.ghost_metal_command_buffer_commit_and_wait(cb)
	return nil
}

// GetAttribute reports pipeline-state properties resolvable without a
// separate device argument.
func (f *Function) GetAttribute(id backend.FunctionAttributeID) attribute.Attribute {
	switch id {
	case backend.FunctionMaxThreadsPerGroup:
		return attribute.NewInt32(int32(f.device.maxThreads))
	default:
		return attribute.Attribute{}
	}
}

// Close releases the pipeline state and function handles.
func (f *Function) Close() error {
	f.pipeline.Reset()
	f.fn.Reset()
	return nil
}
