// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import (
	"math"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
)

// Function implements backend.FunctionImpl over a CUDA module function
// handle.
type Function struct {
	device *Device
	handle uintptr
}

var _ backend.FunctionImpl = (*Function)(nil)

// Launch marshals params into cuLaunchKernel's void** kernelParams
// convention — one storage word per scalar/buffer argument, with LocalMem
// entries folded into the shared-memory byte count instead of passed as an
// argument, matching how CUDA kernels declare __shared__ arrays. Image
// arguments bind a texture object synthesized for the call (see
// createTexObject), not the raw device pointer.
func (f *Function) Launch(s backend.StreamImpl, args backend.LaunchArgs, params []attribute.Attribute) error {
	stream, ok := s.(*Stream)
	if !ok {
		return unsupported("launch: stream from a different backend")
	}

	storage := make([]uintptr, 0, len(params))
	paramPtrs := make([]unsafe.Pointer, 0, len(params))
	var sharedMemBytes uint32

	// Texture objects synthesized for Image arguments must outlive
	// cuLaunchKernel but are this call's to destroy — spec.md §4.7/§9 keeps
	// them in a collection local to the launch frame, released at exit.
	var texObjs []uint64
	defer func() {
		for _, t := range texObjs {
			cuTexObjectDestroy(t)
		}
	}()

	for _, p := range params {
		switch p.Type() {
		case attribute.Float:
			storage = append(storage, uintptr(math.Float64bits(p.AsFloat64())))
		case attribute.Int:
			storage = append(storage, uintptr(p.AsInt64()))
		case attribute.UInt:
			storage = append(storage, uintptr(p.AsUInt64()))
		case attribute.Bool:
			v := uintptr(0)
			if p.AsBool() {
				v = 1
			}
			storage = append(storage, v)
		case attribute.BufferRef:
			if b, ok := p.AsBuffer().(*Buffer); ok {
				storage = append(storage, b.ptr)
			} else {
				storage = append(storage, 0)
			}
		case attribute.ImageRef:
			img, ok := p.AsImage().(*Image)
			if !ok {
				storage = append(storage, 0)
				break
			}
			texObj, err := createTexObject(img)
			if err != nil {
				return err
			}
			texObjs = append(texObjs, texObj)
			storage = append(storage, uintptr(texObj))
		case attribute.LocalMem:
			sharedMemBytes += p.LocalMemBytes()
			continue
		default:
			continue
		}
		paramPtrs = append(paramPtrs, unsafe.Pointer(&storage[len(storage)-1]))
	}

	var kernelParams unsafe.Pointer
	if len(paramPtrs) > 0 {
		kernelParams = unsafe.Pointer(&paramPtrs[0])
	}

	// cuLaunchKernel takes block counts (gridDim), not element counts: each
	// dimension's block count is ceil(global[i]/local[i]), exactly what
	// LaunchArgs.Count computes.
	local := args.LocalSizeArray()
	err := cuLaunchKernel(
		f.handle,
		args.Count(0), args.Count(1), args.Count(2),
		local[0], local[1], local[2],
		sharedMemBytes,
		stream.handle,
		kernelParams, nil,
	).ok()
	if err != nil {
		return native("launchKernel", err.(result))
	}
	return nil
}

// GetAttribute is unsupported per function: the CUDA driver API exposes
// function introspection via cuFuncGetAttribute, which this backend does
// not resolve (out of scope for the symbol table in driver.go).
func (f *Function) GetAttribute(id backend.FunctionAttributeID) attribute.Attribute {
	return attribute.Attribute{}
}
