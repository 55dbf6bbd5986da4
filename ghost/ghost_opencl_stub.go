// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !ghost_opencl

package ghost

import (
	"github.com/gmeeker/ghost/ghostcfg"
	"github.com/gmeeker/ghost/ghosterr"
)

// NewOpenCLDevice is unavailable unless this module was built with the
// ghost_opencl tag (and the system OpenCL SDK present): backend/opencl is
// cgo against CL/cl.h, and gating it keeps the rest of this module
// buildable on hosts without an OpenCL SDK installed.
func NewOpenCLDevice(platformIndex, deviceIndex int, shared SharedContext, cfg ghostcfg.Config) (*Device, error) {
	return nil, ghosterr.Unsupported("opencl", "newOpenCLDevice: built without the ghost_opencl tag")
}
