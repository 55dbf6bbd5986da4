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
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
)

// Function implements backend.FunctionImpl over an OpenCL cl_kernel.
type Function struct {
	device *Device
	kernel C.cl_kernel
}

var _ backend.FunctionImpl = (*Function)(nil)

// Launch binds params via clSetKernelArg, then enqueues an NDRange,
// threading the stream's event chain (spec.md §4.9/§5) through the
// dispatch.
func (f *Function) Launch(s backend.StreamImpl, args backend.LaunchArgs, params []attribute.Attribute) error {
	stream, err := streamOf(s)
	if err != nil {
		return err
	}

	for i, p := range params {
		if err := f.setArg(C.cl_uint(i), p); err != nil {
			return err
		}
	}

	dims := args.Dims()
	if dims == 0 {
		dims = 1
	}
	global := args.GlobalSizeArray()
	var globalSizes [3]C.size_t
	for i := 0; i < dims; i++ {
		globalSizes[i] = C.size_t(global[i])
	}

	var localSizes *C.size_t
	var localArr [3]C.size_t
	if args.IsLocalDefined() {
		local := args.LocalSizeArray()
		for i := 0; i < dims; i++ {
			localArr[i] = C.size_t(local[i])
		}
		localSizes = &localArr[0]
	}

	numWait, waitList := stream.beginEnqueue()
	var outEvent C.cl_event
	st := status(C.clEnqueueNDRangeKernel(stream.queue, f.kernel, C.cl_uint(dims), nil, &globalSizes[0], localSizes, numWait, waitList, &outEvent))
	if err := st.ok(); err != nil {
		stream.endEnqueue(nil)
		return native("enqueueNDRangeKernel", err.(status))
	}
	stream.endEnqueue(outEvent)
	return nil
}

// argWidth returns the element count clSetKernelArg's size must be derived
// from: count unchanged, except a 3-wide vector, which OpenCL always lays
// out in the same 4-slot storage as a 4-wide one (opencl_function.cpp:
// "if (count==3) count=4"). A bare scalar (count 1) is sized as exactly
// one element, matching the kernel's declared `float`/`int` argument.
func argWidth(count int) int {
	if count == 3 {
		return 4
	}
	return count
}

func (f *Function) setArg(index C.cl_uint, p attribute.Attribute) error {
	switch p.Type() {
	case attribute.Float:
		v := p.Float32Array()
		return f.setArgBytes(index, float32sToBytes(v)[:4*argWidth(p.Count())])
	case attribute.Int:
		v := p.Int32Array()
		return f.setArgBytes(index, int32sToBytes(v)[:4*argWidth(p.Count())])
	case attribute.UInt:
		v := p.UInt32Array()
		return f.setArgBytes(index, uint32sToBytes(v)[:4*argWidth(p.Count())])
	case attribute.Bool:
		var b [4]int32
		for i, v := range p.BoolArray() {
			if v {
				b[i] = 1
			}
		}
		return f.setArgBytes(index, int32sToBytes(b)[:4*argWidth(p.Count())])
	case attribute.BufferRef:
		buf, ok := p.AsBuffer().(*Buffer)
		if !ok {
			return unsupported("launch: buffer argument from a different backend")
		}
		return f.setArgValue(index, C.size_t(unsafe.Sizeof(buf.mem)), unsafe.Pointer(&buf.mem))
	case attribute.ImageRef:
		img, ok := p.AsImage().(*Image)
		if !ok {
			return unsupported("launch: image argument from a different backend")
		}
		return f.setArgValue(index, C.size_t(unsafe.Sizeof(img.buf.mem)), unsafe.Pointer(&img.buf.mem))
	case attribute.LocalMem:
		return f.setArgValue(index, C.size_t(p.LocalMemBytes()), nil)
	default:
		return nil
	}
}

func (f *Function) setArgBytes(index C.cl_uint, b []byte) error {
	if len(b) == 0 {
		return f.setArgValue(index, 0, nil)
	}
	return f.setArgValue(index, C.size_t(len(b)), unsafe.Pointer(&b[0]))
}

func (f *Function) setArgValue(index C.cl_uint, size C.size_t, ptr unsafe.Pointer) error {
	if err := status(C.clSetKernelArg(f.kernel, index, size, ptr)).ok(); err != nil {
		return native("setKernelArg", err.(status))
	}
	return nil
}

func float32sToBytes(v [4]float32) []byte {
	buf := make([]byte, 16)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func int32sToBytes(v [4]int32) []byte {
	buf := make([]byte, 16)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(x))
	}
	return buf
}

func uint32sToBytes(v [4]uint32) []byte {
	buf := make([]byte, 16)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], x)
	}
	return buf
}

// GetAttribute is unsupported per function on this backend: OpenCL's
// clGetKernelWorkGroupInfo needs the device handle passed alongside the
// kernel, a third parameter backend.FunctionImpl.GetAttribute has no slot
// for.
func (f *Function) GetAttribute(id backend.FunctionAttributeID) attribute.Attribute {
	return attribute.Attribute{}
}

// Close releases the kernel.
func (f *Function) Close() error {
	if f.kernel != nil {
		C.clReleaseKernel(f.kernel)
		f.kernel = nil
	}
	return nil
}
