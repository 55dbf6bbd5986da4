// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

// Package opencl implements the OpenCL-class GPU backend via cgo against
// the system OpenCL loader (libOpenCL/OpenCL.dll). Grounded on
// _examples/other_examples/CWBudde-MayFlyCircleFit__opencl_runtime_gpu.go's
// cgo preamble and device-enumeration idiom; this is the one GPU backend
// in this module that uses cgo rather than purego, because the grounding
// example for this vendor API is itself cgo-based and OpenCL's
// platform/device enumeration (clGetPlatformIDs/clGetDeviceIDs, nested
// loops over variable-length arrays) reads far more naturally through
// cgo's direct struct/array access than through purego's flat function
// pointers.
package opencl

/*
#cgo LDFLAGS: -lOpenCL
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS
#include <CL/cl.h>
#include <stdlib.h>

static cl_command_queue ghost_create_queue(cl_context ctx, cl_device_id device, cl_int *status) {
	return clCreateCommandQueue(ctx, device, 0, status);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// status is OpenCL's cl_int error code.
type status int32

func (s status) Error() string {
	return fmt.Sprintf("opencl error %d", int32(s))
}

func (s status) ok() error {
	if s == status(C.CL_SUCCESS) {
		return nil
	}
	return s
}

func cBytes(data []byte) (unsafe.Pointer, C.size_t) {
	if len(data) == 0 {
		return nil, 0
	}
	return unsafe.Pointer(&data[0]), C.size_t(len(data))
}
