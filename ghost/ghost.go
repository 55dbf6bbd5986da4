// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ghost is the public facade of the compute-kernel dispatch
// library: Device, Stream, Buffer, MappedBuffer, Image, Library, and
// Function, each forwarding to a backend.XxxImpl chosen at construction
// time (CPU, CUDA-class, Metal-class, or OpenCL-class). Application code
// imports only this package and attribute; backend and the backend/*
// packages are implementation detail.
//
// Ownership follows a shared-reference graph: a Device keeps its default
// stream alive, a Function keeps its owning Library alive, and every other
// facade value is a reference-counted root whose last Release/Close runs
// the backend's native teardown. See internal/refcount.
package ghost

import (
	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
)

// LaunchArgs describes the ND launch geometry for a kernel invocation. It
// is a direct re-export of backend.LaunchArgs: the backend package defines
// the type because every backend's Launch method needs it, and the ghost
// facade just forwards the value through unchanged.
type LaunchArgs = backend.LaunchArgs

// NewLaunchArgs returns the zero LaunchArgs (dims 0, all sizes 1, local
// undefined).
func NewLaunchArgs() LaunchArgs { return backend.NewLaunchArgs() }

// Access describes the read/write intent requested for a buffer or image
// allocation.
type Access = backend.Access

const (
	ReadOnly  = backend.ReadOnly
	WriteOnly = backend.WriteOnly
	ReadWrite = backend.ReadWrite
)

// ImageDescription, DataType, PixelOrder, Size3, Stride2 are re-exported
// unchanged from backend; see backend.go for their field documentation.
type (
	ImageDescription = backend.ImageDescription
	DataType         = backend.DataType
	PixelOrder       = backend.PixelOrder
	Size3            = backend.Size3
	Stride2          = backend.Stride2
)

const (
	UInt8   = backend.UInt8
	Int8    = backend.Int8
	UInt16  = backend.UInt16
	Int16   = backend.Int16
	Float16 = backend.Float16
	Float32 = backend.Float32
	Float64 = backend.Float64
)

const (
	RGBA = backend.RGBA
	ARGB = backend.ARGB
	ABGR = backend.ABGR
	BGRA = backend.BGRA
)

// DeviceAttributeID and FunctionAttributeID are re-exported unchanged.
type (
	DeviceAttributeID   = backend.DeviceAttributeID
	FunctionAttributeID = backend.FunctionAttributeID
)

const (
	DeviceImplementation              = backend.DeviceImplementation
	DeviceName                        = backend.DeviceName
	DeviceVendor                      = backend.DeviceVendor
	DeviceDriverVersion               = backend.DeviceDriverVersion
	DeviceSubUnitCount                = backend.DeviceSubUnitCount
	DeviceUnifiedMemory               = backend.DeviceUnifiedMemory
	DeviceTotalMemory                 = backend.DeviceTotalMemory
	DeviceLocalMemory                 = backend.DeviceLocalMemory
	DeviceMaxThreadsPerGroup          = backend.DeviceMaxThreadsPerGroup
	DeviceMaxWorkSizePerDim           = backend.DeviceMaxWorkSizePerDim
	DeviceMaxRegisters                = backend.DeviceMaxRegisters
	DeviceMaxImageSize1D              = backend.DeviceMaxImageSize1D
	DeviceMaxImageSize2D              = backend.DeviceMaxImageSize2D
	DeviceMaxImageSize3D              = backend.DeviceMaxImageSize3D
	DeviceImageAlignment              = backend.DeviceImageAlignment
	DeviceSupportsMappedBuffer        = backend.DeviceSupportsMappedBuffer
	DeviceSupportsProgramConstants    = backend.DeviceSupportsProgramConstants
	DeviceSubgroupWidth               = backend.DeviceSubgroupWidth
	DeviceSupportsSubgroup            = backend.DeviceSupportsSubgroup
	DeviceSupportsSubgroupShuffle     = backend.DeviceSupportsSubgroupShuffle
	DeviceSupportsImageIntFiltering   = backend.DeviceSupportsImageIntFiltering
	DeviceSupportsImageFloatFiltering = backend.DeviceSupportsImageFloatFiltering
)

const (
	FunctionMaxThreadsPerGroup = backend.FunctionMaxThreadsPerGroup
	FunctionLocalMemoryUsage   = backend.FunctionLocalMemoryUsage
	FunctionRegisterUsage      = backend.FunctionRegisterUsage
)

// SharedContext carries optional externally-created native handles a
// Device can adopt instead of creating its own.
type SharedContext = backend.SharedContext

// resolveParam rewrites a BufferRef/ImageRef attribute created against
// a *Buffer/*Image facade value into the equivalent attribute over the
// backend's own BufferImpl/ImageImpl, since the backend's Launch
// implementations type-assert resource arguments against their own
// concrete types (e.g. *cuda.Buffer), not the facade wrapper.
func resolveParam(p attribute.Attribute) attribute.Attribute {
	switch p.Type() {
	case attribute.BufferRef:
		if b, ok := p.AsBuffer().(*Buffer); ok {
			return attribute.NewBufferRef(b.unwrap())
		}
	case attribute.ImageRef:
		if i, ok := p.AsImage().(*Image); ok {
			return attribute.NewImageRef(i.unwrap())
		}
	}
	return p
}

func resolveParams(params []attribute.Attribute) []attribute.Attribute {
	out := make([]attribute.Attribute, len(params))
	for i, p := range params {
		out[i] = resolveParam(p)
	}
	return out
}
