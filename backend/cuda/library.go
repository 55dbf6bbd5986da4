// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// Library implements backend.LibraryImpl (and, for text-compiled
// libraries, backend.CacheableLibrary) over a loaded CUDA module.
type Library struct {
	device   *Device
	module   uintptr
	cubin    []byte // non-nil only for libraries produced by linkAndLoad.
}

var _ backend.LibraryImpl = (*Library)(nil)
var _ backend.CacheableLibrary = (*Library)(nil)

// linkAndLoad runs the CUDA driver's JIT linker over a single PTX or cubin
// input and loads the resulting module, grounded on the cuLinkCreate /
// cuLinkAddData / cuLinkComplete / cuModuleLoadData sequence the CUDA
// driver API documents for runtime linking.
func linkAndLoad(d *Device, data []byte, inputType int32) (*Library, error) {
	var state uintptr
	if err := cuLinkCreate(0, nil, nil, &state).ok(); err != nil {
		return nil, native("linkCreate", err.(result))
	}
	defer cuLinkDestroy(state)

	if err := cuLinkAddData(state, inputType, ptrOf(data), uintptr(len(data)), cStr("kernel"), 0, nil, nil).ok(); err != nil {
		return nil, native("linkAddData", err.(result))
	}

	var cubinPtr unsafe.Pointer
	var cubinSize uintptr
	if err := cuLinkComplete(state, &cubinPtr, &cubinSize).ok(); err != nil {
		return nil, native("linkComplete", err.(result))
	}
	cubin := append([]byte(nil), unsafe.Slice((*byte)(cubinPtr), int(cubinSize))...)

	var mod uintptr
	if err := cuModuleLoadData(&mod, unsafe.Pointer(&cubin[0])).ok(); err != nil {
		return nil, native("moduleLoadData", err.(result))
	}
	return &Library{device: d, module: mod, cubin: cubin}, nil
}

// LookupFunction resolves name as a __global__ kernel entry point in the
// loaded module.
func (l *Library) LookupFunction(name string) (backend.FunctionImpl, error) {
	var fn uintptr
	if err := cuModuleGetFunction(&fn, l.module, cStr(name)).ok(); err != nil {
		return nil, native("moduleGetFunction", err.(result))
	}
	return &Function{device: l.device, handle: fn}, nil
}

// Binaries implements backend.CacheableLibrary: the linked cubin, one
// sub-unit wide (this backend models one CUDA device per Device value).
func (l *Library) Binaries() [][]byte {
	if l.cubin == nil {
		return nil
	}
	return [][]byte{l.cubin}
}

// Close unloads the module.
func (l *Library) Close() error {
	if l.module != 0 {
		cuModuleUnload(l.module)
		l.module = 0
	}
	return nil
}
