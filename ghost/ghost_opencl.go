// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package ghost

import (
	"github.com/gmeeker/ghost/backend/opencl"
	"github.com/gmeeker/ghost/ghostcfg"
)

// NewOpenCLDevice opens the OpenCL-class GPU backend, selecting the device
// at deviceIndex within platformIndex (or adopting shared's handles).
// backend/opencl compiles against the system OpenCL SDK (CL/cl.h,
// -lOpenCL) via cgo, so this constructor — and the backend/opencl package
// itself — only build when the ghost_opencl tag is passed; without it,
// ghost_opencl_stub.go supplies this symbol instead.
func NewOpenCLDevice(platformIndex, deviceIndex int, shared SharedContext, cfg ghostcfg.Config) (*Device, error) {
	impl, err := opencl.New(platformIndex, deviceIndex, shared)
	if err != nil {
		return nil, err
	}
	return newDevice("opencl", impl, cfg)
}
