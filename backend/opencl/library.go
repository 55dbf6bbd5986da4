// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package opencl

/*
#define CL_TARGET_OPENCL_VERSION 120
#include <CL/cl.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// Library implements backend.LibraryImpl (and, for source-compiled
// libraries, backend.CacheableLibrary) over a built cl_program.
type Library struct {
	device  *Device
	program C.cl_program

	binary []byte // non-nil only for libraries produced by buildFromSource.
}

var _ backend.LibraryImpl = (*Library)(nil)
var _ backend.CacheableLibrary = (*Library)(nil)

// buildFromSource compiles OpenCL C source via clBuildProgram, then pulls
// the device binary back out with clGetProgramInfo(CL_PROGRAM_BINARIES) so
// it can be offered to the binary cache.
func buildFromSource(d *Device, source, options string) (*Library, error) {
	csrc := C.CString(source)
	defer C.free(unsafe.Pointer(csrc))

	var st C.cl_int
	program := C.clCreateProgramWithSource(d.context, 1, &csrc, nil, &st)
	if err := status(st).ok(); err != nil {
		return nil, native("createProgramWithSource", err.(status))
	}

	if err := buildAndCheck(program, d.device, options); err != nil {
		return nil, err
	}

	binary, err := extractBinary(program, d.device)
	if err != nil {
		return nil, err
	}

	return &Library{device: d, program: program, binary: binary}, nil
}

// buildFromBinary loads a program from a vendor-specific binary blob via
// clCreateProgramWithBinary, for cache hits and pre-built artifacts.
func buildFromBinary(d *Device, data []byte) (*Library, error) {
	if len(data) == 0 {
		return nil, unsupported("loadLibraryFromData: empty binary")
	}
	ptr, sz := cBytes(data)
	lengths := []C.size_t{sz}
	binaries := []*C.uchar{(*C.uchar)(ptr)}

	var st C.cl_int
	var binStatus C.cl_int
	program := C.clCreateProgramWithBinary(d.context, 1, &d.device, &lengths[0], &binaries[0], &binStatus, &st)
	if err := status(st).ok(); err != nil {
		return nil, native("createProgramWithBinary", err.(status))
	}
	if err := buildAndCheck(program, d.device, ""); err != nil {
		return nil, err
	}
	return &Library{device: d, program: program}, nil
}

func buildAndCheck(program C.cl_program, device C.cl_device_id, options string) error {
	var copts *C.char
	if options != "" {
		copts = C.CString(options)
		defer C.free(unsafe.Pointer(copts))
	}
	st := C.clBuildProgram(program, 1, &device, copts, nil, nil)
	if status(st).ok() == nil {
		return nil
	}
	log := buildLog(program, device)
	return buildErr(log)
}

// buildLog extracts the per-device build log on a CL_BUILD_PROGRAM_FAILURE,
// the vendor compiler's human-readable diagnostic output.
func buildLog(program C.cl_program, device C.cl_device_id) string {
	var size C.size_t
	C.clGetProgramBuildInfo(program, device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &size)
	if size == 0 {
		return ""
	}
	buf := make([]byte, size)
	C.clGetProgramBuildInfo(program, device, C.CL_PROGRAM_BUILD_LOG, size, unsafe.Pointer(&buf[0]), nil)
	return string(buf)
}

func extractBinary(program C.cl_program, device C.cl_device_id) ([]byte, error) {
	var size C.size_t
	if err := status(C.clGetProgramInfo(program, C.CL_PROGRAM_BINARY_SIZES, C.size_t(unsafe.Sizeof(size)), unsafe.Pointer(&size), nil)).ok(); err != nil {
		return nil, native("getProgramInfo(sizes)", err.(status))
	}
	if size == 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	ptrs := []*C.uchar{(*C.uchar)(unsafe.Pointer(&buf[0]))}
	if err := status(C.clGetProgramInfo(program, C.CL_PROGRAM_BINARIES, C.size_t(unsafe.Sizeof(ptrs[0])), unsafe.Pointer(&ptrs[0]), nil)).ok(); err != nil {
		return nil, native("getProgramInfo(binaries)", err.(status))
	}
	return buf, nil
}

// LookupFunction resolves name as a kernel entry point via clCreateKernel.
func (l *Library) LookupFunction(name string) (backend.FunctionImpl, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var st C.cl_int
	kernel := C.clCreateKernel(l.program, cname, &st)
	if err := status(st).ok(); err != nil {
		return nil, native("createKernel", err.(status))
	}
	return &Function{device: l.device, kernel: kernel}, nil
}

// Binaries implements backend.CacheableLibrary.
func (l *Library) Binaries() [][]byte {
	if l.binary == nil {
		return nil
	}
	return [][]byte{l.binary}
}

// Close releases the program.
func (l *Library) Close() error {
	if l.program != nil {
		C.clReleaseProgram(l.program)
		l.program = nil
	}
	return nil
}
