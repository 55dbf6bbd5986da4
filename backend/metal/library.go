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
	"math"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/handle"
)

// Metal MTLDataType raw values this backend specializes with. Defined here
// rather than imported from the Metal headers since cgo does not expose
// Objective-C enums as Go constants.
const (
	mtlDataTypeBool  = 53
	mtlDataTypeInt   = 3
	mtlDataTypeUInt  = 4
	mtlDataTypeFloat = 6
)

// Library implements backend.LibraryImpl (and, for source-compiled
// libraries, backend.CacheableLibrary) over an MTLLibrary.
type Library struct {
	device *Device
	h      handle.Handle[unsafe.Pointer, objTraits]
	source string // non-empty only for libraries produced by LoadLibraryFromText.
}

var _ backend.LibraryImpl = (*Library)(nil)
var _ backend.CacheableLibrary = (*Library)(nil)
var _ backend.SpecializableLibrary = (*Library)(nil)

// LookupFunction resolves name and immediately builds its compute pipeline
// state, since Metal has no separate "just resolve the symbol" step that
// is cheaper than building the pipeline.
func (l *Library) LookupFunction(name string) (backend.FunctionImpl, error) {
	cname := cString(name)
	defer freeCString(cname)

	fn := C.ghost_metal_library_new_function(l.h.Get(), cname)
	if fn == nil {
		return nil, unsupported("lookupFunction: no such function " + name)
	}
	fnHandle := handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(fn))

	var cerr *C.char
	pso := C.ghost_metal_new_pipeline_state(l.device.h.Get(), fn, &cerr)
	if pso == nil {
		fnHandle.Reset()
		return nil, takeError("lookupFunction", cerr)
	}
	return &Function{
		device:   l.device,
		fn:       fnHandle,
		pipeline: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(pso)),
	}, nil
}

// LookupSpecializedFunction implements backend.SpecializableLibrary:
// attrs become the function's MTLFunctionConstantValues, bound by
// sequential index before the pipeline state is built, so the compiler
// can fold them in as real constants rather than runtime arguments.
func (l *Library) LookupSpecializedFunction(name string, attrs []attribute.Attribute) (backend.FunctionImpl, error) {
	cname := cString(name)
	defer freeCString(cname)

	n := len(attrs)
	values := make([]unsafe.Pointer, n)
	lengths := make([]C.size_t, n)
	dataTypes := make([]C.uint32_t, n)
	words := make([]uint64, n)
	floats := make([]float32, n)

	for i, a := range attrs {
		switch a.Type() {
		case attribute.Bool:
			if a.AsBool() {
				words[i] = 1
			}
			values[i] = unsafe.Pointer(&words[i])
			lengths[i] = 1
			dataTypes[i] = mtlDataTypeBool
		case attribute.Int:
			words[i] = uint64(int32(a.AsInt64()))
			values[i] = unsafe.Pointer(&words[i])
			lengths[i] = 4
			dataTypes[i] = mtlDataTypeInt
		case attribute.UInt:
			words[i] = uint64(uint32(a.AsUInt64()))
			values[i] = unsafe.Pointer(&words[i])
			lengths[i] = 4
			dataTypes[i] = mtlDataTypeUInt
		case attribute.Float:
			floats[i] = float32(a.AsFloat64())
			bits := math.Float32bits(floats[i])
			words[i] = uint64(bits)
			values[i] = unsafe.Pointer(&words[i])
			lengths[i] = 4
			dataTypes[i] = mtlDataTypeFloat
		default:
			return nil, unsupported("lookupSpecializedFunction: unsupported constant type for " + name)
		}
	}

	var valuesPtr *unsafe.Pointer
	var lengthsPtr *C.size_t
	var typesPtr *C.uint32_t
	if n > 0 {
		valuesPtr = &values[0]
		lengthsPtr = &lengths[0]
		typesPtr = &dataTypes[0]
	}

	var cerr *C.char
	fn := C.ghost_metal_library_new_specialized_function(l.h.Get(), cname, valuesPtr, lengthsPtr, typesPtr, C.int(n), &cerr)
	if fn == nil {
		return nil, takeError("lookupSpecializedFunction", cerr)
	}
	fnHandle := handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(fn))

	pso := C.ghost_metal_new_pipeline_state(l.device.h.Get(), fn, &cerr)
	if pso == nil {
		fnHandle.Reset()
		return nil, takeError("lookupSpecializedFunction", cerr)
	}
	return &Function{
		device:   l.device,
		fn:       fnHandle,
		pipeline: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(pso)),
	}, nil
}

// Binaries implements backend.CacheableLibrary, but always reports no
// binaries to cache: unlike CUDA's linked cubin or OpenCL's
// clGetProgramInfo binary query, Metal's public API gives a
// source-compiled MTLLibrary no way to serialize itself back into a
// .metallib archive, so text-compiled libraries recompile from source on
// every run. See DESIGN.md.
func (l *Library) Binaries() [][]byte { return nil }

// Close releases the library handle.
func (l *Library) Close() error {
	l.h.Reset()
	return nil
}
