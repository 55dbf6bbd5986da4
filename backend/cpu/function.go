// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"math"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
)

// nativeKernelFunc is the C-ABI signature every exported symbol in a CPU
// shared-library kernel module must have: its own launch index, the total
// unit count for this launch, a pointer to a contiguous argv array (one
// machine word per kernel argument, raw bit patterns), and the argv length.
// purego.RegisterLibFunc binds directly to this signature; it is the CPU
// backend's equivalent of the vendor ABI every GPU backend resolves through
// internal/loader.
type nativeKernelFunc func(index uint32, total uint32, argv uintptr, argc uint32)

// Function implements backend.FunctionImpl for a symbol resolved out of a
// CPU shared-library kernel module.
type Function struct {
	name  string
	raw   nativeKernelFunc
	cores int
}

var _ backend.FunctionImpl = (*Function)(nil)

// Launch fans the kernel out across min(launchArgs.CountTotal(), cores)
// pool units, exactly as spec.md's literal scenario describes: a 32-wide
// 1-D launch on an 8-core device runs 8 units, each told total=8.
func (f *Function) Launch(s backend.StreamImpl, args backend.LaunchArgs, params []attribute.Attribute) error {
	stream, ok := s.(*Stream)
	if !ok {
		return unsupported("launch: stream from a different backend")
	}

	total := args.CountTotal()
	if total == 0 {
		return nil
	}
	count := int(total)
	if count > f.cores {
		count = f.cores
	}

	argv := marshalArgs(params)

	// argv must stay alive until every launched unit has run; capturing the
	// slice itself (not just its address) in the closure keeps it reachable
	// for the GC across the asynchronous pool dispatch.
	kernelFn := func(index, total int, _ []attribute.Attribute) {
		var argvPtr uintptr
		if len(argv) > 0 {
			argvPtr = uintptr(unsafe.Pointer(&argv[0]))
		}
		f.raw(uint32(index), uint32(total), argvPtr, uint32(len(argv)))
	}
	stream.pool.Thread(count, kernelFn, params)
	return nil
}

// GetAttribute reports function properties. CPU functions have no register
// allocator and no local-memory limit distinct from the host's, so only
// FunctionMaxThreadsPerGroup resolves to something meaningful.
func (f *Function) GetAttribute(id backend.FunctionAttributeID) attribute.Attribute {
	switch id {
	case backend.FunctionMaxThreadsPerGroup:
		return attribute.NewInt32(int32(f.cores))
	default:
		return attribute.Attribute{}
	}
}

// marshalArgs packs each attribute into one machine word of argv, matching
// the raw, caller-knows-the-ABI contract spec.md §3 describes for kernel
// arguments: buffer/image references become a pointer into their backing
// store, numeric scalars become their bit pattern, LocalMem becomes its
// requested size (CPU kernels have no distinct shared-memory address space
// to allocate, so the size is informational only).
func marshalArgs(params []attribute.Attribute) []uintptr {
	argv := make([]uintptr, len(params))
	for i, p := range params {
		switch p.Type() {
		case attribute.Float:
			argv[i] = uintptr(math.Float64bits(p.AsFloat64()))
		case attribute.Int:
			argv[i] = uintptr(p.AsInt64())
		case attribute.UInt:
			argv[i] = uintptr(p.AsUInt64())
		case attribute.Bool:
			if p.AsBool() {
				argv[i] = 1
			}
		case attribute.BufferRef:
			if b, ok := p.AsBuffer().(*Buffer); ok && len(b.data) > 0 {
				argv[i] = uintptr(unsafe.Pointer(&b.data[0]))
			}
		case attribute.ImageRef:
			if img, ok := p.AsImage().(*Image); ok && len(img.data) > 0 {
				argv[i] = uintptr(unsafe.Pointer(&img.data[0]))
			}
		case attribute.LocalMem:
			argv[i] = uintptr(p.LocalMemBytes())
		}
	}
	return argv
}
