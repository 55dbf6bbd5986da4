// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cuda implements the CUDA-class GPU backend by resolving the CUDA
// driver API at runtime through internal/loader — no cgo, no static link
// against libcuda. Grounded on
// _examples/other_examples/djeday123-goml__driver.go's purego-based driver
// binding.
package cuda

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gmeeker/ghost/internal/loader"
)

// result is the CUDA driver's CUresult error code.
type result int32

const success result = 0

func (r result) Error() string {
	return fmt.Sprintf("cuda driver error %d", int32(r))
}

func (r result) ok() error {
	if r == success {
		return nil
	}
	return r
}

// deviceAttr mirrors the subset of CUdevice_attribute this backend queries.
type deviceAttr int32

const (
	attrMaxThreadsPerBlock     deviceAttr = 1
	attrMaxSharedMemPerBlock   deviceAttr = 8
	attrWarpSize               deviceAttr = 10
	attrMultiprocessorCount    deviceAttr = 16
	attrComputeCapabilityMajor deviceAttr = 75
	attrComputeCapabilityMinor deviceAttr = 76
	attrUnifiedAddressing      deviceAttr = 41
	attrManagedMemory          deviceAttr = 83
)

var (
	driverOnce sync.Once
	driverErr  error
	lib        *loader.Library

	cuInit func(flags uint32) result

	cuDeviceGetCount     func(count *int32) result
	cuDeviceGet          func(device *int32, ordinal int32) result
	cuDeviceGetName      func(name *byte, length int32, dev int32) result
	cuDeviceGetAttribute func(pi *int32, attrib deviceAttr, dev int32) result
	cuDeviceTotalMem     func(bytes *uint64, dev int32) result
	cuDriverGetVersion   func(version *int32) result

	cuCtxCreate       func(pctx *uintptr, flags uint32, dev int32) result
	cuCtxSetCurrent   func(ctx uintptr) result
	cuCtxDestroy      func(ctx uintptr) result
	cuCtxGetCurrent   func(pctx *uintptr) result

	cuMemAlloc       func(dptr *uintptr, bytesize uint64) result
	cuMemFree        func(dptr uintptr) result
	cuMemcpyHtoD     func(dstDevice uintptr, srcHost unsafe.Pointer, byteCount uint64) result
	cuMemcpyDtoH     func(dstHost unsafe.Pointer, srcDevice uintptr, byteCount uint64) result
	cuMemcpyDtoD     func(dstDevice, srcDevice uintptr, byteCount uint64) result
	cuMemHostAlloc   func(pp *unsafe.Pointer, bytesize uint64, flags uint32) result
	cuMemFreeHost    func(p unsafe.Pointer) result
	cuMemHostGetDevicePointer func(pdptr *uintptr, p unsafe.Pointer, flags uint32) result

	cuModuleLoadData    func(module *uintptr, image unsafe.Pointer) result
	cuModuleGetFunction func(hfunc *uintptr, hmod uintptr, name *byte) result
	cuModuleUnload      func(hmod uintptr) result

	cuLinkCreate   func(numOptions uint32, options unsafe.Pointer, optionValues unsafe.Pointer, stateOut *uintptr) result
	cuLinkAddData  func(state uintptr, inputType int32, data unsafe.Pointer, size uintptr, name *byte, numOptions uint32, options unsafe.Pointer, optionValues unsafe.Pointer) result
	cuLinkComplete func(state uintptr, cubinOut *unsafe.Pointer, sizeOut *uintptr) result
	cuLinkDestroy  func(state uintptr) result

	cuLaunchKernel func(
		f uintptr,
		gridDimX, gridDimY, gridDimZ uint32,
		blockDimX, blockDimY, blockDimZ uint32,
		sharedMemBytes uint32,
		hStream uintptr,
		kernelParams unsafe.Pointer,
		extra unsafe.Pointer,
	) result

	cuStreamCreate      func(phStream *uintptr, flags uint32) result
	cuStreamSynchronize func(hStream uintptr) result
	cuStreamDestroy     func(hStream uintptr) result

	cuTexObjectCreate  func(pTexObject *uint64, pResDesc unsafe.Pointer, pTexDesc unsafe.Pointer, pResViewDesc unsafe.Pointer) result
	cuTexObjectDestroy func(texObject uint64) result
)

const (
	jitInputPTX   int32 = 1
	jitInputCubin int32 = 2
)

// initDriver dlopens libcuda and resolves every symbol this backend needs,
// exactly once per process.
func initDriver() error {
	driverOnce.Do(func() {
		l, err := loader.Open("libcuda.so", "libcuda.so.1", "nvcuda.dll")
		if err != nil {
			driverErr = err
			return
		}
		lib = l

		lib.Register(&cuInit, "cuInit")
		lib.Register(&cuDeviceGetCount, "cuDeviceGetCount")
		lib.Register(&cuDeviceGet, "cuDeviceGet")
		lib.Register(&cuDeviceGetName, "cuDeviceGetName")
		lib.Register(&cuDeviceGetAttribute, "cuDeviceGetAttribute")
		lib.Register(&cuDeviceTotalMem, "cuDeviceTotalMem_v2")
		lib.Register(&cuDriverGetVersion, "cuDriverGetVersion")

		lib.Register(&cuCtxCreate, "cuCtxCreate_v2")
		lib.Register(&cuCtxSetCurrent, "cuCtxSetCurrent")
		lib.Register(&cuCtxDestroy, "cuCtxDestroy_v2")
		lib.Register(&cuCtxGetCurrent, "cuCtxGetCurrent")

		lib.Register(&cuMemAlloc, "cuMemAlloc_v2")
		lib.Register(&cuMemFree, "cuMemFree_v2")
		lib.Register(&cuMemcpyHtoD, "cuMemcpyHtoD_v2")
		lib.Register(&cuMemcpyDtoH, "cuMemcpyDtoH_v2")
		lib.Register(&cuMemcpyDtoD, "cuMemcpyDtoD_v2")
		lib.Register(&cuMemHostAlloc, "cuMemHostAlloc")
		lib.Register(&cuMemFreeHost, "cuMemFreeHost")
		lib.Register(&cuMemHostGetDevicePointer, "cuMemHostGetDevicePointer_v2")

		lib.Register(&cuModuleLoadData, "cuModuleLoadData")
		lib.Register(&cuModuleGetFunction, "cuModuleGetFunction")
		lib.Register(&cuModuleUnload, "cuModuleUnload")

		lib.Register(&cuLinkCreate, "cuLinkCreate_v2")
		lib.Register(&cuLinkAddData, "cuLinkAddData_v2")
		lib.Register(&cuLinkComplete, "cuLinkComplete")
		lib.Register(&cuLinkDestroy, "cuLinkDestroy")

		lib.Register(&cuLaunchKernel, "cuLaunchKernel")

		lib.Register(&cuStreamCreate, "cuStreamCreate")
		lib.Register(&cuStreamSynchronize, "cuStreamSynchronize")
		lib.Register(&cuStreamDestroy, "cuStreamDestroy")

		lib.Register(&cuTexObjectCreate, "cuTexObjectCreate")
		lib.Register(&cuTexObjectDestroy, "cuTexObjectDestroy")

		if err := cuInit(0).ok(); err != nil {
			driverErr = err
		}
	})
	return driverErr
}

func cStr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
